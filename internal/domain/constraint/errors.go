package constraint

import "errors"

var (
	// ErrInvalidInput indicates invalid constraint input.
	ErrInvalidInput = errors.New("invalid constraint input")
	// ErrConstraintNotFound indicates no constraint exists for the pair.
	ErrConstraintNotFound = errors.New("constraint not found")
)
