package availability

import "context"

// Repository provides persistence for availability slots.
type Repository interface {
	Add(ctx context.Context, slot *Slot) error
	Get(ctx context.Context, participantID int64, t TimeOfDay) (*Slot, error)
	Delete(ctx context.Context, id int64) error
	ListByParticipant(ctx context.Context, participantID int64) ([]Slot, error)
	List(ctx context.Context) ([]Slot, error)
}
