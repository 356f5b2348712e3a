package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/team"
	"github.com/OrionApplePie/ProjectsAutomation/internal/repository"
)

// ProjectRepository implements team.ProjectRepository for SQLite
type ProjectRepository struct {
	db queryer
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a project template and sets its ID
func (r *ProjectRepository) Create(ctx context.Context, proj *team.Project) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (name, description, link_doc) VALUES (?, ?, ?)`,
		proj.Name, proj.Description, proj.LinkDoc,
	)
	if err != nil {
		return writeError(err, "create project")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get project id: %w", err)
	}
	proj.ID = id
	return nil
}

// Get retrieves a project template by ID
func (r *ProjectRepository) Get(ctx context.Context, id int64) (*team.Project, error) {
	return r.get(ctx, `SELECT id, name, description, link_doc FROM projects WHERE id = ?`, id)
}

// GetByName retrieves a project template by its unique name
func (r *ProjectRepository) GetByName(ctx context.Context, name string) (*team.Project, error) {
	return r.get(ctx, `SELECT id, name, description, link_doc FROM projects WHERE name = ?`, name)
}

func (r *ProjectRepository) get(ctx context.Context, query string, arg any) (*team.Project, error) {
	var proj team.Project
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&proj.ID, &proj.Name, &proj.Description, &proj.LinkDoc)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &proj, nil
}

// List returns every project template ordered by ID
func (r *ProjectRepository) List(ctx context.Context) ([]team.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, link_doc FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []team.Project{}
	for rows.Next() {
		var proj team.Project
		if err := rows.Scan(&proj.ID, &proj.Name, &proj.Description, &proj.LinkDoc); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, proj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, nil
}
