package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/participant"
	"github.com/OrionApplePie/ProjectsAutomation/internal/repository"
)

const participantColumns = `id, name, telegram_id, telegram_username, discord_username, role, level, far_east`

// ParticipantRepository implements participant.Repository for SQLite
type ParticipantRepository struct {
	db queryer
}

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository(db *DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// Create inserts a participant and sets its ID
func (r *ParticipantRepository) Create(ctx context.Context, p *participant.Participant) error {
	query := `
		INSERT INTO participants (name, telegram_id, telegram_username, discord_username, role, level, far_east)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.TelegramID,
		p.TelegramUsername,
		p.DiscordUsername,
		p.Role,
		p.Level,
		p.FarEast,
	)
	if err != nil {
		return writeError(err, "create participant")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get participant id: %w", err)
	}
	p.ID = id
	return nil
}

// Get retrieves a participant by ID
func (r *ParticipantRepository) Get(ctx context.Context, id int64) (*participant.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = ?`

	p, err := scanParticipant(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

// GetByUsername retrieves the single participant with a telegram username.
// Two matches yield repository.ErrConflict.
func (r *ParticipantRepository) GetByUsername(ctx context.Context, username string) (*participant.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE telegram_username = ? COLLATE NOCASE ORDER BY id LIMIT 2`

	list, err := r.query(ctx, query, username)
	if err != nil {
		return nil, err
	}
	switch len(list) {
	case 0:
		return nil, repository.ErrNotFound
	case 1:
		return &list[0], nil
	default:
		return nil, repository.ErrConflict
	}
}

// List returns participants ordered by ID, optionally filtered by role
func (r *ParticipantRepository) List(ctx context.Context, role *participant.Role) ([]participant.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants`
	args := []any{}
	if role != nil {
		query += ` WHERE role = ?`
		args = append(args, *role)
	}
	query += ` ORDER BY id`
	return r.query(ctx, query, args...)
}

// SetTelegramID stores the chat ID of a participant
func (r *ParticipantRepository) SetTelegramID(ctx context.Context, id, telegramID int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE participants SET telegram_id = ? WHERE id = ?`, telegramID, id)
	if err != nil {
		return fmt.Errorf("failed to set telegram id: %w", err)
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

func (r *ParticipantRepository) query(ctx context.Context, query string, args ...any) ([]participant.Participant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	list := []participant.Participant{}
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		list = append(list, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}
	return list, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanParticipant(row scanner) (*participant.Participant, error) {
	var p participant.Participant
	var telegramID sql.NullInt64
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&telegramID,
		&p.TelegramUsername,
		&p.DiscordUsername,
		&p.Role,
		&p.Level,
		&p.FarEast,
	); err != nil {
		return nil, err
	}
	if telegramID.Valid {
		p.TelegramID = &telegramID.Int64
	}
	return &p, nil
}
