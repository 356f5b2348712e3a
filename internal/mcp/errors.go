package mcp

import (
	"errors"
	"fmt"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/activity"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/availability"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/constraint"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/distribution"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/participant"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/team"
	"github.com/OrionApplePie/ProjectsAutomation/internal/matching"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

// MapError maps domain errors to MCP error codes. Unknown errors become
// INTERNAL with the original message.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, distribution.ErrRunInProgress):
		return &APIError{Code: "RUN_IN_PROGRESS", Message: err.Error(), RecoveryHint: "Retry after the current run finishes"}
	case errors.Is(err, distribution.ErrCommitFailed):
		return &APIError{Code: "COMMIT_FAILED", Message: err.Error(), RecoveryHint: "No changes were made; check recent_activity and retry"}
	case errors.Is(err, matching.ErrInputData):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Fix the roster data named in the message"}
	case errors.Is(err, participant.ErrAmbiguousUsername):
		return &APIError{Code: "AMBIGUOUS_USERNAME", Message: err.Error()}
	case errors.Is(err, participant.ErrParticipantNotFound),
		errors.Is(err, availability.ErrSlotNotFound),
		errors.Is(err, constraint.ErrConstraintNotFound),
		errors.Is(err, team.ErrTeamNotFound),
		errors.Is(err, team.ErrProjectNotFound):
		return &APIError{Code: "NOT_FOUND", Message: err.Error(), RecoveryHint: "Check the username or ID"}
	case errors.Is(err, availability.ErrSlotBound):
		return &APIError{Code: "SLOT_BOUND", Message: err.Error(), RecoveryHint: "Cancel the distribution that formed the team first"}
	case errors.Is(err, participant.ErrInvalidInput),
		errors.Is(err, availability.ErrInvalidInput),
		errors.Is(err, constraint.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput),
		errors.Is(err, team.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return &APIError{Code: "INTERNAL", Message: err.Error()}
	}
}

func invalidInput(format string, args ...any) *APIError {
	return &APIError{Code: "INVALID_INPUT", Message: fmt.Sprintf(format, args...)}
}
