package activity

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	RunID         *string
	ParticipantID *int64
	Operator      *string
	ActivityType  *ActivityType
	Limit         int
	Offset        int
}
