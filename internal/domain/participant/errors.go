package participant

import "errors"

var (
	// ErrParticipantNotFound indicates the participant doesn't exist.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrInvalidInput indicates invalid participant input.
	ErrInvalidInput = errors.New("invalid participant input")
	// ErrAmbiguousUsername indicates more than one participant shares a username.
	ErrAmbiguousUsername = errors.New("more than one participant with this username")
)
