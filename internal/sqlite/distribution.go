package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/availability"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/constraint"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/distribution"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/participant"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/team"
	"github.com/OrionApplePie/ProjectsAutomation/internal/repository"
)

// DistributionStore implements distribution.Store for SQLite
type DistributionStore struct {
	db           *DB
	participants *ParticipantRepository
	slots        *SlotRepository
	constraints  *ConstraintRepository
	projects     *ProjectRepository
	teams        *TeamRepository
}

// NewDistributionStore creates a new DistributionStore
func NewDistributionStore(db *DB) *DistributionStore {
	return &DistributionStore{
		db:           db,
		participants: NewParticipantRepository(db),
		slots:        NewSlotRepository(db),
		constraints:  NewConstraintRepository(db),
		projects:     NewProjectRepository(db),
		teams:        NewTeamRepository(db),
	}
}

func (s *DistributionStore) ListParticipants(ctx context.Context) ([]participant.Participant, error) {
	return s.participants.List(ctx, nil)
}

func (s *DistributionStore) ListSlots(ctx context.Context) ([]availability.Slot, error) {
	return s.slots.List(ctx)
}

func (s *DistributionStore) ListConstraints(ctx context.Context) ([]constraint.Constraint, error) {
	return s.constraints.List(ctx)
}

func (s *DistributionStore) ListProjects(ctx context.Context) ([]team.Project, error) {
	return s.projects.List(ctx)
}

func (s *DistributionStore) ListTeams(ctx context.Context) ([]team.TeamProject, error) {
	return s.teams.List(ctx)
}

// WithinTx runs fn in one SQLite transaction
func (s *DistributionStore) WithinTx(ctx context.Context, fn func(tx distribution.Tx) error) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		return fn(&distributionTx{tx: tx, teams: &TeamRepository{db: tx}})
	})
}

type distributionTx struct {
	tx    *sql.Tx
	teams *TeamRepository
}

func (t *distributionTx) CreateRun(ctx context.Context, run *distribution.Run) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO distribution_runs (id, created_at) VALUES (?, ?)`,
		run.ID, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

func (t *distributionTx) CreateTeam(ctx context.Context, tp *team.TeamProject) error {
	return t.teams.Create(ctx, tp)
}

func (t *distributionTx) BindSlot(ctx context.Context, participantID int64, at availability.TimeOfDay, teamID int64, order int) error {
	query := `
		UPDATE slots SET team_project_id = ?, bind_order = ?
		WHERE participant_id = ? AND time_of_day = ? AND team_project_id IS NULL
	`

	result, err := t.tx.ExecContext(ctx, query, teamID, order, participantID, at)
	if err != nil {
		return fmt.Errorf("failed to bind slot: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected != 1 {
		return fmt.Errorf("%w: no free slot for participant %d at %s", repository.ErrConflict, participantID, at)
	}
	return nil
}

func (t *distributionTx) LatestRun(ctx context.Context) (*distribution.Run, error) {
	var run distribution.Run
	var cancelledAt sql.NullTime
	err := t.tx.QueryRowContext(ctx,
		`SELECT id, created_at, cancelled_at FROM distribution_runs ORDER BY rowid DESC LIMIT 1`,
	).Scan(&run.ID, &run.CreatedAt, &cancelledAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	if cancelledAt.Valid {
		run.CancelledAt = &cancelledAt.Time
	}
	return &run, nil
}

func (t *distributionTx) ListRunTeams(ctx context.Context, runID string) ([]int64, error) {
	rows, err := t.tx.QueryContext(ctx, `SELECT id FROM team_projects WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list run teams: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan team id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run team rows: %w", err)
	}
	return ids, nil
}

func (t *distributionTx) ReleaseTeam(ctx context.Context, teamID int64) (int, error) {
	result, err := t.tx.ExecContext(ctx,
		`UPDATE slots SET team_project_id = NULL, bind_order = 0 WHERE team_project_id = ?`, teamID)
	if err != nil {
		return 0, fmt.Errorf("failed to release slots: %w", err)
	}
	released, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, `DELETE FROM team_projects WHERE id = ?`, teamID); err != nil {
		return 0, fmt.Errorf("failed to delete team project: %w", err)
	}
	return int(released), nil
}

func (t *distributionTx) MarkRunCancelled(ctx context.Context, runID string, at time.Time) error {
	result, err := t.tx.ExecContext(ctx,
		`UPDATE distribution_runs SET cancelled_at = ? WHERE id = ? AND cancelled_at IS NULL`, at, runID)
	if err != nil {
		return fmt.Errorf("failed to cancel run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
