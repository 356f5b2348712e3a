package sqlite

import (
	"context"
	"fmt"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/constraint"
	"github.com/OrionApplePie/ProjectsAutomation/internal/repository"
)

// ConstraintRepository implements constraint.Repository for SQLite
type ConstraintRepository struct {
	db queryer
}

// NewConstraintRepository creates a new ConstraintRepository
func NewConstraintRepository(db *DB) *ConstraintRepository {
	return &ConstraintRepository{db: db}
}

// Upsert stores the constraint for its pair, replacing the previous kind
func (r *ConstraintRepository) Upsert(ctx context.Context, c *constraint.Constraint) error {
	pair := c.Pair()
	query := `
		INSERT INTO participant_constraints (first_id, second_id, kind)
		VALUES (?, ?, ?)
		ON CONFLICT (first_id, second_id) DO UPDATE SET kind = excluded.kind
		RETURNING id
	`

	if err := r.db.QueryRowContext(ctx, query, pair.A, pair.B, c.Kind).Scan(&c.ID); err != nil {
		return writeError(err, "upsert constraint")
	}
	c.First, c.Second = pair.A, pair.B
	return nil
}

// Delete removes the constraint for a pair
func (r *ConstraintRepository) Delete(ctx context.Context, pair constraint.Pair) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM participant_constraints WHERE first_id = ? AND second_id = ?`,
		pair.A, pair.B,
	)
	if err != nil {
		return fmt.Errorf("failed to delete constraint: %w", err)
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

// List returns every constraint ordered by pair
func (r *ConstraintRepository) List(ctx context.Context) ([]constraint.Constraint, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, first_id, second_id, kind FROM participant_constraints ORDER BY first_id, second_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list constraints: %w", err)
	}
	defer rows.Close()

	list := []constraint.Constraint{}
	for rows.Next() {
		var c constraint.Constraint
		if err := rows.Scan(&c.ID, &c.First, &c.Second, &c.Kind); err != nil {
			return nil, fmt.Errorf("failed to scan constraint: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating constraint rows: %w", err)
	}
	return list, nil
}
