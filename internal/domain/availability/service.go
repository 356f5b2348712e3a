package availability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/OrionApplePie/ProjectsAutomation/internal/repository"
)

// Service handles availability slot operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new availability service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Declare records that a participant is free at t. Declaring an existing
// slot returns it unchanged.
func (s *Service) Declare(ctx context.Context, participantID int64, t TimeOfDay) (*Slot, error) {
	if participantID <= 0 || !t.Valid() {
		return nil, ErrInvalidInput
	}

	existing, err := s.repo.Get(ctx, participantID, t)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("loading slot: %w", err)
	}

	slot := &Slot{ParticipantID: participantID, Time: t}
	if err := s.repo.Add(ctx, slot); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, fmt.Errorf("%w: unknown participant %d", ErrInvalidInput, participantID)
		}
		return nil, fmt.Errorf("adding slot: %w", err)
	}
	return slot, nil
}

// Withdraw removes a free slot. Bound slots stay until their team is cancelled.
func (s *Service) Withdraw(ctx context.Context, participantID int64, t TimeOfDay) error {
	slot, err := s.repo.Get(ctx, participantID, t)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSlotNotFound
		}
		return fmt.Errorf("loading slot: %w", err)
	}
	if slot.Bound() {
		return ErrSlotBound
	}
	if err := s.repo.Delete(ctx, slot.ID); err != nil {
		return fmt.Errorf("deleting slot: %w", err)
	}
	return nil
}

// ListFor returns a participant's slots in ascending time order.
func (s *Service) ListFor(ctx context.Context, participantID int64) ([]Slot, error) {
	return s.repo.ListByParticipant(ctx, participantID)
}
