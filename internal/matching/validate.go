package matching

import (
	"errors"
	"fmt"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/availability"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/constraint"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/participant"
)

// ErrInputData indicates malformed or dangling availability or constraint
// records. A run that hits it must not mutate anything.
var ErrInputData = errors.New("invalid distribution input")

// Validate checks that every slot and constraint refers to a known
// participant and carries a known value.
func Validate(participants []participant.Participant, slots []availability.Slot, constraints []constraint.Constraint) error {
	known := make(map[int64]bool, len(participants))
	for _, p := range participants {
		if known[p.ID] {
			return fmt.Errorf("%w: duplicate participant %d", ErrInputData, p.ID)
		}
		if !p.Role.Valid() {
			return fmt.Errorf("%w: participant %d has unknown role %q", ErrInputData, p.ID, p.Role)
		}
		known[p.ID] = true
	}

	for _, s := range slots {
		if !known[s.ParticipantID] {
			return fmt.Errorf("%w: slot %d references unknown participant %d", ErrInputData, s.ID, s.ParticipantID)
		}
		if !s.Time.Valid() {
			return fmt.Errorf("%w: slot %d has time outside the day", ErrInputData, s.ID)
		}
	}

	for _, c := range constraints {
		switch {
		case !c.Kind.Valid():
			return fmt.Errorf("%w: constraint %d has unknown kind %q", ErrInputData, c.ID, c.Kind)
		case c.First == c.Second:
			return fmt.Errorf("%w: constraint %d pairs participant %d with itself", ErrInputData, c.ID, c.First)
		case !known[c.First]:
			return fmt.Errorf("%w: constraint %d references unknown participant %d", ErrInputData, c.ID, c.First)
		case !known[c.Second]:
			return fmt.Errorf("%w: constraint %d references unknown participant %d", ErrInputData, c.ID, c.Second)
		}
	}
	return nil
}
