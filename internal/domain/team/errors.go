package team

import "errors"

var (
	// ErrTeamNotFound indicates the team project doesn't exist.
	ErrTeamNotFound = errors.New("team project not found")
	// ErrProjectNotFound indicates the project template doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid team or project input.
	ErrInvalidInput = errors.New("invalid team input")
)
