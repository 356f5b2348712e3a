package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/team"
	"github.com/OrionApplePie/ProjectsAutomation/internal/repository"
)

const teamColumns = `
	id, run_id, project_id, manager_id, time_of_day, date_start, date_end,
	discord_server_link, trello_desk_link, created_at
`

// TeamRepository implements team.Repository for SQLite
type TeamRepository struct {
	db queryer
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create inserts a team project and sets its ID
func (r *TeamRepository) Create(ctx context.Context, tp *team.TeamProject) error {
	query := `
		INSERT INTO team_projects (
			run_id, project_id, manager_id, time_of_day, date_start, date_end,
			discord_server_link, trello_desk_link, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var runID sql.NullString
	if tp.RunID != "" {
		runID = sql.NullString{String: tp.RunID, Valid: true}
	}
	result, err := r.db.ExecContext(ctx, query,
		runID,
		tp.ProjectID,
		tp.ManagerID,
		tp.Time,
		tp.DateStart,
		tp.DateEnd,
		tp.DiscordServerLink,
		tp.TrelloDeskLink,
		tp.CreatedAt,
	)
	if err != nil {
		return writeError(err, "create team project")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get team project id: %w", err)
	}
	tp.ID = id
	return nil
}

// Get retrieves a team project by ID
func (r *TeamRepository) Get(ctx context.Context, id int64) (*team.TeamProject, error) {
	query := `SELECT ` + teamColumns + ` FROM team_projects WHERE id = ?`

	tp, err := scanTeam(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team project: %w", err)
	}
	return tp, nil
}

// List returns every team project ordered by ID
func (r *TeamRepository) List(ctx context.Context) ([]team.TeamProject, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+teamColumns+` FROM team_projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list team projects: %w", err)
	}
	defer rows.Close()

	teams := []team.TeamProject{}
	for rows.Next() {
		tp, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team project: %w", err)
		}
		teams = append(teams, *tp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team project rows: %w", err)
	}
	return teams, nil
}

// SetLinks updates the discord and trello links of a team project
func (r *TeamRepository) SetLinks(ctx context.Context, id int64, discord, trello string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE team_projects SET discord_server_link = ?, trello_desk_link = ? WHERE id = ?`,
		discord, trello, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set team links: %w", err)
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

func scanTeam(row scanner) (*team.TeamProject, error) {
	var tp team.TeamProject
	var runID sql.NullString
	var projectID sql.NullInt64
	if err := row.Scan(
		&tp.ID,
		&runID,
		&projectID,
		&tp.ManagerID,
		&tp.Time,
		&tp.DateStart,
		&tp.DateEnd,
		&tp.DiscordServerLink,
		&tp.TrelloDeskLink,
		&tp.CreatedAt,
	); err != nil {
		return nil, err
	}
	tp.RunID = runID.String
	if projectID.Valid {
		tp.ProjectID = &projectID.Int64
	}
	return &tp, nil
}
