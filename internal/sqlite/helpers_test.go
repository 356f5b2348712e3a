package sqlite

import (
	"context"
	"testing"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/availability"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/participant"
	"github.com/stretchr/testify/require"
)

func insertParticipant(t *testing.T, db *DB, name string, role participant.Role) *participant.Participant {
	t.Helper()
	p := &participant.Participant{
		Name:             name,
		TelegramUsername: name,
		Role:             role,
		Level:            participant.LevelNotApplicable,
	}
	if role == participant.RoleStudent {
		p.Level = participant.LevelJunior
	}
	require.NoError(t, NewParticipantRepository(db).Create(context.Background(), p))
	return p
}

func insertSlot(t *testing.T, db *DB, participantID int64, at string) *availability.Slot {
	t.Helper()
	slot := &availability.Slot{ParticipantID: participantID, Time: availability.MustParseTimeOfDay(at)}
	require.NoError(t, NewSlotRepository(db).Add(context.Background(), slot))
	return slot
}
