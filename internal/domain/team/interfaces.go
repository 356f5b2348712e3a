package team

import "context"

// ProjectRepository provides persistence for project templates.
type ProjectRepository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id int64) (*Project, error)
	GetByName(ctx context.Context, name string) (*Project, error)
	List(ctx context.Context) ([]Project, error)
}

// Repository provides access to stored team projects.
type Repository interface {
	Get(ctx context.Context, id int64) (*TeamProject, error)
	List(ctx context.Context) ([]TeamProject, error)
	SetLinks(ctx context.Context, id int64, discord, trello string) error
}
