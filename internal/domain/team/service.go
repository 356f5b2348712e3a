package team

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/OrionApplePie/ProjectsAutomation/internal/repository"
)

// Service handles project templates and team project metadata.
type Service struct {
	projects ProjectRepository
	teams    Repository
	logger   *slog.Logger
}

// NewService creates a new team service.
func NewService(projects ProjectRepository, teams Repository, logger *slog.Logger) *Service {
	return &Service{projects: projects, teams: teams, logger: logger}
}

// CreateProjectRequest defines project template inputs.
type CreateProjectRequest struct {
	Name        string
	Description string
	LinkDoc     string
}

// CreateProject stores a new project template.
func (s *Service) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	if err := validateLink(req.LinkDoc); err != nil {
		return nil, err
	}

	proj := &Project{
		Name:        name,
		Description: req.Description,
		LinkDoc:     req.LinkDoc,
	}
	if err := s.projects.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	return proj, nil
}

// EnsureProject returns the template named req.Name, creating it if missing.
func (s *Service) EnsureProject(ctx context.Context, req CreateProjectRequest) (*Project, bool, error) {
	proj, err := s.projects.GetByName(ctx, strings.TrimSpace(req.Name))
	if err == nil {
		return proj, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("getting project: %w", err)
	}
	proj, err = s.CreateProject(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return proj, true, nil
}

// ListProjects returns templates ordered by ID.
func (s *Service) ListProjects(ctx context.Context) ([]Project, error) {
	return s.projects.List(ctx)
}

// Get fetches a team project by ID.
func (s *Service) Get(ctx context.Context, id int64) (*TeamProject, error) {
	tp, err := s.teams.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("getting team project: %w", err)
	}
	return tp, nil
}

// SetLinks attaches the team's discord server and trello board.
func (s *Service) SetLinks(ctx context.Context, id int64, discord, trello string) error {
	if err := validateLink(discord); err != nil {
		return err
	}
	if err := validateLink(trello); err != nil {
		return err
	}
	if err := s.teams.SetLinks(ctx, id, discord, trello); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("setting team links: %w", err)
	}
	return nil
}

func validateLink(link string) error {
	if link == "" {
		return nil
	}
	u, err := url.Parse(link)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: bad link %q", ErrInvalidInput, link)
	}
	return nil
}
