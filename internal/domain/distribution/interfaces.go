package distribution

import (
	"context"
	"time"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/activity"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/availability"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/constraint"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/participant"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/team"
)

// Store reads distribution inputs and opens the transaction that commits or
// cancels a run.
type Store interface {
	ListParticipants(ctx context.Context) ([]participant.Participant, error)
	ListSlots(ctx context.Context) ([]availability.Slot, error)
	ListConstraints(ctx context.Context) ([]constraint.Constraint, error)
	ListProjects(ctx context.Context) ([]team.Project, error)
	ListTeams(ctx context.Context) ([]team.TeamProject, error)

	// WithinTx runs fn in one transaction, rolling back if fn fails.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the write side of a run commit or cancellation.
type Tx interface {
	CreateRun(ctx context.Context, run *Run) error
	CreateTeam(ctx context.Context, tp *team.TeamProject) error
	// BindSlot binds the participant's free slot at t. It fails with
	// repository.ErrConflict unless exactly one free slot was bound.
	BindSlot(ctx context.Context, participantID int64, t availability.TimeOfDay, teamID int64, order int) error
	// LatestRun returns the most recent run or repository.ErrNotFound.
	LatestRun(ctx context.Context) (*Run, error)
	ListRunTeams(ctx context.Context, runID string) ([]int64, error)
	// ReleaseTeam unbinds every slot of the team, deletes it and returns the
	// number of released slots.
	ReleaseTeam(ctx context.Context, teamID int64) (int, error)
	MarkRunCancelled(ctx context.Context, runID string, at time.Time) error
}

// ActivityRecorder writes audit entries without failing the caller.
type ActivityRecorder interface {
	Record(ctx context.Context, typ activity.ActivityType, summary string, details any, opts ...activity.EntryOption)
}
