package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// LogActivity logs an activity entry with the current timestamp if missing.
func (s *Service) LogActivity(ctx context.Context, entry *ActivityEntry) error {
	if entry == nil || entry.ActivityType == "" {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	return nil
}

// Record logs an entry and only reports failures to the logger. Callers use
// it where the audit trail must never fail the operation being audited.
func (s *Service) Record(ctx context.Context, typ ActivityType, summary string, details any, opts ...EntryOption) {
	entry := &ActivityEntry{ActivityType: typ, Summary: summary, Operator: OperatorFromContext(ctx)}
	if details != nil {
		data, err := json.Marshal(details)
		if err == nil {
			entry.Details = string(data)
		}
	}
	for _, opt := range opts {
		opt(entry)
	}
	if err := s.LogActivity(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("activity log write failed", "type", typ, "error", err)
	}
}

// GetRecentActivity lists activity entries with filtering.
func (s *Service) GetRecentActivity(ctx context.Context, opts ListActivityOptions) ([]ActivityEntry, error) {
	return s.repo.List(ctx, opts)
}

// EntryOption decorates an entry written by Record.
type EntryOption func(*ActivityEntry)

// WithRun ties the entry to a distribution run.
func WithRun(runID string) EntryOption {
	return func(e *ActivityEntry) {
		if runID != "" {
			e.RunID = &runID
		}
	}
}

// WithParticipant ties the entry to a participant.
func WithParticipant(id int64) EntryOption {
	return func(e *ActivityEntry) {
		e.ParticipantID = &id
	}
}
