package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeDistributionCommitted ActivityType = "distribution_committed"
	TypeDistributionFailed    ActivityType = "distribution_failed"
	TypeDistributionCancelled ActivityType = "distribution_cancelled"
	TypeConstraintConflict    ActivityType = "constraint_conflict"
	TypeNotificationSent      ActivityType = "notification_sent"
	TypeNotificationFailed    ActivityType = "notification_failed"
	TypeRosterImported        ActivityType = "roster_imported"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID            int64        `json:"id"`
	RunID         *string      `json:"run_id,omitempty"`
	ParticipantID *int64       `json:"participant_id,omitempty"`
	Operator      string       `json:"operator,omitempty"`
	ActivityType  ActivityType `json:"type"`
	Summary       string       `json:"summary"`
	Details       string       `json:"details,omitempty"` // JSON string
	CreatedAt     time.Time    `json:"created_at"`
}
