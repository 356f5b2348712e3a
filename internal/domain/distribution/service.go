package distribution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/activity"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/team"
	"github.com/OrionApplePie/ProjectsAutomation/internal/lock"
	"github.com/OrionApplePie/ProjectsAutomation/internal/matching"
	"github.com/OrionApplePie/ProjectsAutomation/internal/repository"
	"github.com/google/uuid"
)

const (
	lockName               = "distribution"
	defaultProjectDuration = 7 * 24 * time.Hour
)

// Options configures a Service.
type Options struct {
	MaxTeamSize     int
	ProjectDuration time.Duration
	// Now overrides the clock used for run timestamps and team dates.
	Now func() time.Time
}

// Service runs and cancels distributions and answers team queries.
type Service struct {
	store    Store
	engine   *matching.Engine
	locker   lock.Locker
	activity ActivityRecorder
	logger   *slog.Logger
	now      func() time.Time
	duration time.Duration

	// mu keeps readers off half-applied commits. Proposals are computed
	// without it.
	mu sync.RWMutex
}

// NewService creates a distribution service.
func NewService(store Store, locker lock.Locker, recorder ActivityRecorder, opts Options, logger *slog.Logger) *Service {
	if locker == nil {
		locker = lock.NewLocal()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ProjectDuration <= 0 {
		opts.ProjectDuration = defaultProjectDuration
	}
	return &Service{
		store:    store,
		engine:   matching.New(matching.Options{MaxTeamSize: opts.MaxTeamSize}),
		locker:   locker,
		activity: recorder,
		logger:   logger,
		now:      opts.Now,
		duration: opts.ProjectDuration,
	}
}

// Run computes a proposal from the current data and commits it atomically.
// On any commit error nothing is persisted and ErrCommitFailed is returned.
func (s *Service) Run(ctx context.Context) (RunSummary, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return RunSummary{}, err
	}
	defer release()

	participants, err := s.store.ListParticipants(ctx)
	if err != nil {
		return RunSummary{}, fmt.Errorf("loading participants: %w", err)
	}
	slots, err := s.store.ListSlots(ctx)
	if err != nil {
		return RunSummary{}, fmt.Errorf("loading slots: %w", err)
	}
	constraints, err := s.store.ListConstraints(ctx)
	if err != nil {
		return RunSummary{}, fmt.Errorf("loading constraints: %w", err)
	}
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return RunSummary{}, fmt.Errorf("loading projects: %w", err)
	}

	proposal, err := s.engine.Propose(participants, slots, constraints)
	if err != nil {
		s.logger.Error("distribution input rejected", "error", err)
		s.record(ctx, activity.TypeDistributionFailed, err.Error(), nil)
		return RunSummary{}, err
	}

	for _, c := range proposal.Conflicts {
		s.logger.Warn("together-group has conflicting constraints", "group", c.Group, "pairs", c.Pairs)
		s.record(ctx, activity.TypeConstraintConflict,
			fmt.Sprintf("students %v must be together and apart", c.Group), c)
	}
	for _, c := range proposal.Ignored {
		s.logger.Info("constraint ignored", "first", c.First, "second", c.Second, "kind", c.Kind)
	}

	summary := RunSummary{
		Teams:      []CommittedTeam{},
		Assigned:   proposal.AssignedCount(),
		Unassigned: proposal.Unassigned,
		Conflicts:  proposal.Conflicts,
		Ignored:    proposal.Ignored,
	}
	if len(proposal.Teams) == 0 {
		s.logger.Info("distribution formed no teams", "unassigned", len(proposal.Unassigned))
		return summary, nil
	}

	run := &Run{ID: uuid.New().String(), CreatedAt: s.now()}
	teams, err := s.commit(ctx, run, proposal.Teams, projects)
	if err != nil {
		s.logger.Error("distribution commit failed", "run_id", run.ID, "error", err)
		s.record(ctx, activity.TypeDistributionFailed, "commit rolled back: "+err.Error(), nil, activity.WithRun(run.ID))
		return RunSummary{}, fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}

	summary.RunID = run.ID
	summary.Teams = teams
	s.logger.Info("distribution committed", "run_id", run.ID, "teams", len(teams),
		"assigned", summary.Assigned, "unassigned", len(summary.Unassigned))
	s.record(ctx, activity.TypeDistributionCommitted, summary.Text(), summary, activity.WithRun(run.ID))
	return summary, nil
}

func (s *Service) commit(ctx context.Context, run *Run, proposed []matching.Team, projects []team.Project) ([]CommittedTeam, error) {
	start := nextMonday(run.CreatedAt)
	end := start.Add(s.duration)

	s.mu.Lock()
	defer s.mu.Unlock()

	var committed []CommittedTeam
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		committed = make([]CommittedTeam, 0, len(proposed))
		if err := tx.CreateRun(ctx, run); err != nil {
			return fmt.Errorf("creating run: %w", err)
		}

		for i, t := range proposed {
			tp := &team.TeamProject{
				RunID:     run.ID,
				ManagerID: t.ManagerID,
				Time:      t.Time,
				DateStart: start,
				DateEnd:   end,
				CreatedAt: run.CreatedAt,
			}
			if len(projects) > 0 {
				id := projects[i%len(projects)].ID
				tp.ProjectID = &id
			}
			if err := tx.CreateTeam(ctx, tp); err != nil {
				return fmt.Errorf("creating team for manager %d: %w", t.ManagerID, err)
			}

			if err := tx.BindSlot(ctx, t.ManagerID, t.Time, tp.ID, 0); err != nil {
				return fmt.Errorf("binding manager %d at %s: %w", t.ManagerID, t.Time, err)
			}
			for order, id := range t.StudentIDs {
				if err := tx.BindSlot(ctx, id, t.Time, tp.ID, order+1); err != nil {
					return fmt.Errorf("binding student %d at %s: %w", id, t.Time, err)
				}
			}

			committed = append(committed, CommittedTeam{
				TeamProjectID: tp.ID,
				ProjectID:     tp.ProjectID,
				ManagerID:     t.ManagerID,
				Time:          t.Time,
				StudentIDs:    t.StudentIDs,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return committed, nil
}

// CancelLast undoes the most recent run. Calling it again, or with no run on
// record, reports NothingToCancel and changes nothing.
func (s *Service) CancelLast(ctx context.Context) (CancelSummary, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return CancelSummary{}, err
	}
	defer release()

	s.mu.Lock()
	defer s.mu.Unlock()

	var summary CancelSummary
	err = s.store.WithinTx(ctx, func(tx Tx) error {
		summary = CancelSummary{}
		run, err := tx.LatestRun(ctx)
		if errors.Is(err, repository.ErrNotFound) {
			summary.NothingToCancel = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("loading latest run: %w", err)
		}
		if run.Cancelled() {
			summary.NothingToCancel = true
			return nil
		}

		summary.RunID = run.ID
		teamIDs, err := tx.ListRunTeams(ctx, run.ID)
		if err != nil {
			return fmt.Errorf("listing run teams: %w", err)
		}
		for _, id := range teamIDs {
			released, err := tx.ReleaseTeam(ctx, id)
			if err != nil {
				return fmt.Errorf("releasing team %d: %w", id, err)
			}
			summary.TeamsRemoved++
			summary.SlotsReleased += released
		}
		if err := tx.MarkRunCancelled(ctx, run.ID, s.now()); err != nil {
			return fmt.Errorf("marking run cancelled: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("cancellation failed", "error", err)
		return CancelSummary{}, fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}

	if summary.NothingToCancel {
		s.logger.Info("nothing to cancel")
		return summary, nil
	}
	s.logger.Info("distribution cancelled", "run_id", summary.RunID,
		"teams", summary.TeamsRemoved, "slots", summary.SlotsReleased)
	s.record(ctx, activity.TypeDistributionCancelled, summary.Text(), summary, activity.WithRun(summary.RunID))
	return summary, nil
}

func (s *Service) acquire(ctx context.Context) (func(), error) {
	release, err := s.locker.Acquire(ctx, lockName)
	if errors.Is(err, lock.ErrHeld) {
		return nil, ErrRunInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("acquiring run lock: %w", err)
	}
	return release, nil
}

func (s *Service) record(ctx context.Context, typ activity.ActivityType, summary string, details any, opts ...activity.EntryOption) {
	if s.activity == nil {
		return
	}
	s.activity.Record(ctx, typ, summary, details, opts...)
}

// nextMonday returns midnight of the first Monday strictly after t.
func nextMonday(t time.Time) time.Time {
	days := (8 - int(t.Weekday())) % 7
	if days == 0 {
		days = 7
	}
	y, m, d := t.Date()
	return time.Date(y, m, d+days, 0, 0, 0, 0, t.Location())
}
