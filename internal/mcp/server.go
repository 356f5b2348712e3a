package mcp

import (
	"context"
	"log/slog"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/activity"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/availability"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/constraint"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/distribution"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/participant"
	"github.com/OrionApplePie/ProjectsAutomation/internal/notify"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// DistributionService defines the distribution operations exposed as tools.
type DistributionService interface {
	Run(ctx context.Context) (distribution.RunSummary, error)
	CancelLast(ctx context.Context) (distribution.CancelSummary, error)
	ListFormedTeams(ctx context.Context) ([]distribution.FormedTeam, error)
	ListUnallocatedStudents(ctx context.Context) ([]participant.Participant, error)
	ListFreeManagerTimes(ctx context.Context) ([]availability.TimeOfDay, error)
}

// Notifier sends team and unallocated messages.
type Notifier interface {
	NotifyTeams(ctx context.Context, teams []distribution.FormedTeam) notify.Report
	NotifyUnallocated(ctx context.Context, students []participant.Participant, freeTimes []availability.TimeOfDay) notify.Report
}

// ParticipantService resolves usernames.
type ParticipantService interface {
	FindByUsername(ctx context.Context, username string) (*participant.Participant, error)
}

// ConstraintService stores pairwise constraints.
type ConstraintService interface {
	Set(ctx context.Context, first, second int64, kind constraint.Kind) (*constraint.Constraint, error)
}

// AvailabilityService manages declared slots.
type AvailabilityService interface {
	Declare(ctx context.Context, participantID int64, t availability.TimeOfDay) (*availability.Slot, error)
	Withdraw(ctx context.Context, participantID int64, t availability.TimeOfDay) error
	ListFor(ctx context.Context, participantID int64) ([]availability.Slot, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Distribution DistributionService
	Notifier     Notifier
	Participants ParticipantService
	Constraints  ConstraintService
	Availability AvailabilityService
	Activity     ActivityService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      KeyResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "teams",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is local operator use and never authenticates.
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(noAuthMiddleware(localOperator))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services, cfg.Logger)

	return server
}
