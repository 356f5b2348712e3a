package participant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/OrionApplePie/ProjectsAutomation/internal/repository"
)

// Service handles participant operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new participant service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateRequest defines participant creation inputs.
type CreateRequest struct {
	Name             string
	TelegramUsername string
	DiscordUsername  string
	Role             Role
	Level            Level
	FarEast          bool
}

// Create validates and stores a new participant.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Participant, error) {
	p := &Participant{
		Name:             strings.TrimSpace(req.Name),
		TelegramUsername: NormalizeUsername(req.TelegramUsername),
		DiscordUsername:  strings.TrimSpace(req.DiscordUsername),
		Role:             req.Role,
		Level:            req.Level,
		FarEast:          req.FarEast,
	}
	if err := Validate(p); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("creating participant: %w", err)
	}
	return p, nil
}

// Get fetches a participant by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Participant, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("getting participant: %w", err)
	}
	return p, nil
}

// FindByUsername looks a participant up by Telegram username, with or without
// the leading @.
func (s *Service) FindByUsername(ctx context.Context, username string) (*Participant, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return nil, ErrInvalidInput
	}
	p, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrParticipantNotFound
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrAmbiguousUsername
		}
		return nil, fmt.Errorf("finding participant: %w", err)
	}
	return p, nil
}

// List returns every participant ordered by ID.
func (s *Service) List(ctx context.Context) ([]Participant, error) {
	return s.repo.List(ctx, nil)
}

// ListByRole returns participants with the given role ordered by ID.
func (s *Service) ListByRole(ctx context.Context, role Role) ([]Participant, error) {
	if !role.Valid() {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, &role)
}

// LinkTelegram binds a chat ID to the participant registered under username.
// The chat front-end calls it when a participant first talks to the bot.
func (s *Service) LinkTelegram(ctx context.Context, username string, telegramID int64) (*Participant, error) {
	if telegramID <= 0 {
		return nil, ErrInvalidInput
	}
	p, err := s.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetTelegramID(ctx, p.ID, telegramID); err != nil {
		return nil, fmt.Errorf("linking telegram id: %w", err)
	}
	p.TelegramID = &telegramID
	if s.logger != nil {
		s.logger.Info("telegram account linked", "participant_id", p.ID, "username", p.TelegramUsername)
	}
	return p, nil
}

// Validate checks the fields required for a stored participant.
func Validate(p *Participant) error {
	if p == nil || p.Name == "" || p.TelegramUsername == "" {
		return ErrInvalidInput
	}
	if !p.Role.Valid() {
		return ErrInvalidInput
	}
	if p.Level == "" {
		p.Level = LevelNotApplicable
	}
	if !p.Level.Valid() {
		return ErrInvalidInput
	}
	if p.Role == RoleProductManager && p.Level != LevelNotApplicable {
		return ErrInvalidInput
	}
	return nil
}

// NormalizeUsername strips whitespace and a leading @.
func NormalizeUsername(username string) string {
	return strings.TrimPrefix(strings.TrimSpace(username), "@")
}
