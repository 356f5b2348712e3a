// Package app wires configuration, storage and domain services together for
// the server and CLI binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/OrionApplePie/ProjectsAutomation/internal/config"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/activity"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/availability"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/constraint"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/distribution"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/participant"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/team"
	"github.com/OrionApplePie/ProjectsAutomation/internal/lock"
	"github.com/OrionApplePie/ProjectsAutomation/internal/mcp"
	"github.com/OrionApplePie/ProjectsAutomation/internal/notify"
	"github.com/OrionApplePie/ProjectsAutomation/internal/roster"
	"github.com/OrionApplePie/ProjectsAutomation/internal/sqlite"
	"github.com/redis/go-redis/v9"
)

// App holds every long-lived component.
type App struct {
	DB           *sqlite.DB
	Redis        *redis.Client
	Participants *participant.Service
	Availability *availability.Service
	Constraints  *constraint.Service
	Teams        *team.Service
	Activity     *activity.Service
	Distribution *distribution.Service
	Notifier     *notify.Notifier
	Importer     *roster.Importer
	APIKeys      *sqlite.APIKeyRepository
}

// New opens storage, runs migrations and builds the services.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}

	a := &App{DB: db}
	if cfg.UsesRedis() {
		a.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := a.Redis.Ping(pingCtx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
	}

	a.Participants = participant.NewService(sqlite.NewParticipantRepository(db), logger)
	a.Availability = availability.NewService(sqlite.NewSlotRepository(db), logger)
	a.Constraints = constraint.NewService(sqlite.NewConstraintRepository(db), logger)
	a.Teams = team.NewService(sqlite.NewProjectRepository(db), sqlite.NewTeamRepository(db), logger)
	a.Activity = activity.NewService(sqlite.NewActivityRepository(db), logger)
	a.APIKeys = sqlite.NewAPIKeyRepository(db)

	var locker lock.Locker = lock.NewLocal()
	if cfg.Lock.Backend == "redis" {
		locker = lock.NewRedis(a.Redis, cfg.Lock.TTL, logger)
	}
	a.Distribution = distribution.NewService(sqlite.NewDistributionStore(db), locker, a.Activity, distribution.Options{
		MaxTeamSize:     cfg.Distribution.MaxTeamSize,
		ProjectDuration: cfg.Distribution.ProjectDuration,
	}, logger)

	var sender notify.Sender = notify.NewLogSender(logger)
	if cfg.Notify.Sender == "redis" {
		sender = notify.NewRedisSender(a.Redis, cfg.Notify.Stream)
	}
	a.Notifier = notify.New(sender, notify.Options{Rate: cfg.Notify.Rate, Burst: cfg.Notify.Burst}, a.Activity, logger)

	a.Importer = roster.NewImporter(a.Participants, a.Availability, a.Constraints, a.Teams, a.Activity, logger)
	return a, nil
}

// MCPServices returns the services exposed as MCP tools.
func (a *App) MCPServices() mcp.Services {
	return mcp.Services{
		Distribution: a.Distribution,
		Notifier:     a.Notifier,
		Participants: a.Participants,
		Constraints:  a.Constraints,
		Availability: a.Availability,
		Activity:     a.Activity,
	}
}

// NotifyAll sends team messages and then unallocated messages.
func (a *App) NotifyAll(ctx context.Context) (teams, unallocated notify.Report, err error) {
	formed, err := a.Distribution.ListFormedTeams(ctx)
	if err != nil {
		return teams, unallocated, err
	}
	teams = a.Notifier.NotifyTeams(ctx, formed)

	students, err := a.Distribution.ListUnallocatedStudents(ctx)
	if err != nil {
		return teams, unallocated, err
	}
	free, err := a.Distribution.ListFreeManagerTimes(ctx)
	if err != nil {
		return teams, unallocated, err
	}
	unallocated = a.Notifier.NotifyUnallocated(ctx, students, free)
	return teams, unallocated, nil
}

// Close releases storage connections.
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
