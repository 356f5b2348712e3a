package participant

import "context"

// Repository provides persistence for participants.
type Repository interface {
	Create(ctx context.Context, p *Participant) error
	Get(ctx context.Context, id int64) (*Participant, error)
	GetByUsername(ctx context.Context, username string) (*Participant, error)
	List(ctx context.Context, role *Role) ([]Participant, error)
	SetTelegramID(ctx context.Context, id, telegramID int64) error
}
