package constraint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/OrionApplePie/ProjectsAutomation/internal/repository"
)

// Service handles constraint operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new constraint service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Set stores the constraint for a pair, replacing any previous kind so a
// pair never carries both TOG and SEP.
func (s *Service) Set(ctx context.Context, first, second int64, kind Kind) (*Constraint, error) {
	if first <= 0 || second <= 0 || first == second || !kind.Valid() {
		return nil, ErrInvalidInput
	}

	pair := NewPair(first, second)
	c := &Constraint{First: pair.A, Second: pair.B, Kind: kind}
	if err := s.repo.Upsert(ctx, c); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, fmt.Errorf("%w: unknown participant", ErrInvalidInput)
		}
		return nil, fmt.Errorf("storing constraint: %w", err)
	}
	return c, nil
}

// Clear removes the constraint for a pair.
func (s *Service) Clear(ctx context.Context, first, second int64) error {
	if err := s.repo.Delete(ctx, NewPair(first, second)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrConstraintNotFound
		}
		return fmt.Errorf("deleting constraint: %w", err)
	}
	return nil
}

// List returns every stored constraint.
func (s *Service) List(ctx context.Context) ([]Constraint, error) {
	return s.repo.List(ctx)
}
