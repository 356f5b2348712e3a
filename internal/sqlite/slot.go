package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/availability"
	"github.com/OrionApplePie/ProjectsAutomation/internal/repository"
)

const slotColumns = `id, participant_id, time_of_day, team_project_id, bind_order`

// SlotRepository implements availability.Repository for SQLite
type SlotRepository struct {
	db queryer
}

// NewSlotRepository creates a new SlotRepository
func NewSlotRepository(db *DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// Add inserts a free slot and sets its ID
func (r *SlotRepository) Add(ctx context.Context, slot *availability.Slot) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO slots (participant_id, time_of_day) VALUES (?, ?)`,
		slot.ParticipantID, slot.Time,
	)
	if err != nil {
		return writeError(err, "add slot")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get slot id: %w", err)
	}
	slot.ID = id
	return nil
}

// Get retrieves a participant's slot at a time of day
func (r *SlotRepository) Get(ctx context.Context, participantID int64, t availability.TimeOfDay) (*availability.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE participant_id = ? AND time_of_day = ?`

	slot, err := scanSlot(r.db.QueryRowContext(ctx, query, participantID, t))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}
	return slot, nil
}

// Delete removes a slot
func (r *SlotRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM slots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
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

// ListByParticipant returns a participant's slots in time order
func (r *SlotRepository) ListByParticipant(ctx context.Context, participantID int64) ([]availability.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE participant_id = ? ORDER BY time_of_day`
	return r.query(ctx, query, participantID)
}

// List returns every slot ordered by participant and time
func (r *SlotRepository) List(ctx context.Context) ([]availability.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots ORDER BY participant_id, time_of_day`
	return r.query(ctx, query)
}

func (r *SlotRepository) query(ctx context.Context, query string, args ...any) ([]availability.Slot, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	defer rows.Close()

	slots := []availability.Slot{}
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		slots = append(slots, *slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating slot rows: %w", err)
	}
	return slots, nil
}

func scanSlot(row scanner) (*availability.Slot, error) {
	var slot availability.Slot
	var teamID sql.NullInt64
	if err := row.Scan(&slot.ID, &slot.ParticipantID, &slot.Time, &teamID, &slot.BindOrder); err != nil {
		return nil, err
	}
	if teamID.Valid {
		slot.TeamProjectID = &teamID.Int64
	}
	return &slot, nil
}
