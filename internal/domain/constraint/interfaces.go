package constraint

import "context"

// Repository provides persistence for constraints.
type Repository interface {
	Upsert(ctx context.Context, c *Constraint) error
	Delete(ctx context.Context, pair Pair) error
	List(ctx context.Context) ([]Constraint, error)
}
