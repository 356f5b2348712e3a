package availability

import "errors"

var (
	// ErrInvalidInput indicates invalid availability input.
	ErrInvalidInput = errors.New("invalid availability input")
	// ErrSlotNotFound indicates the slot doesn't exist.
	ErrSlotNotFound = errors.New("slot not found")
	// ErrSlotBound indicates the slot is consumed by a team and can't change.
	ErrSlotBound = errors.New("slot is bound to a team")
)
