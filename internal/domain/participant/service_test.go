package participant_test

import (
	"context"
	"testing"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/participant"
	"github.com/OrionApplePie/ProjectsAutomation/internal/repository"
	"github.com/OrionApplePie/ProjectsAutomation/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParticipantService_CreateNormalizes(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ParticipantRepository{}
	repo.On("Create", ctx, mock.MatchedBy(func(p *participant.Participant) bool {
		return p.TelegramUsername == "anna" && p.Level == participant.LevelNotApplicable
	})).Return(nil)

	svc := participant.NewService(repo, nil)
	p, err := svc.Create(ctx, participant.CreateRequest{
		Name:             " Anna ",
		TelegramUsername: "@anna",
		Role:             participant.RoleProductManager,
	})
	require.NoError(t, err)
	require.Equal(t, "Anna", p.Name)
	repo.AssertExpectations(t)
}

func TestParticipantService_CreateValidation(t *testing.T) {
	svc := participant.NewService(&mocks.ParticipantRepository{}, nil)
	tests := []participant.CreateRequest{
		{Name: "", TelegramUsername: "x", Role: participant.RoleStudent},
		{Name: "x", TelegramUsername: "", Role: participant.RoleStudent},
		{Name: "x", TelegramUsername: "x", Role: "XX"},
		{Name: "x", TelegramUsername: "x", Role: participant.RoleStudent, Level: "guru"},
		{Name: "x", TelegramUsername: "x", Role: participant.RoleProductManager, Level: participant.LevelJunior},
	}
	for _, req := range tests {
		_, err := svc.Create(context.Background(), req)
		require.ErrorIs(t, err, participant.ErrInvalidInput)
	}
}

func TestParticipantService_FindByUsername(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ParticipantRepository{}
	repo.On("GetByUsername", ctx, "anna").Return(&participant.Participant{ID: 3, TelegramUsername: "anna"}, nil)
	repo.On("GetByUsername", ctx, "ghost").Return(nil, repository.ErrNotFound)
	repo.On("GetByUsername", ctx, "twin").Return(nil, repository.ErrConflict)

	svc := participant.NewService(repo, nil)
	p, err := svc.FindByUsername(ctx, "@anna")
	require.NoError(t, err)
	require.Equal(t, int64(3), p.ID)

	_, err = svc.FindByUsername(ctx, "ghost")
	require.ErrorIs(t, err, participant.ErrParticipantNotFound)
	_, err = svc.FindByUsername(ctx, "twin")
	require.ErrorIs(t, err, participant.ErrAmbiguousUsername)
	_, err = svc.FindByUsername(ctx, " @ ")
	require.ErrorIs(t, err, participant.ErrInvalidInput)
}

func TestParticipantService_LinkTelegram(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ParticipantRepository{}
	repo.On("GetByUsername", ctx, "anna").Return(&participant.Participant{ID: 3, TelegramUsername: "anna"}, nil)
	repo.On("SetTelegramID", ctx, int64(3), int64(4242)).Return(nil)

	svc := participant.NewService(repo, nil)
	p, err := svc.LinkTelegram(ctx, "anna", 4242)
	require.NoError(t, err)
	require.Equal(t, int64(4242), *p.TelegramID)

	_, err = svc.LinkTelegram(ctx, "anna", 0)
	require.ErrorIs(t, err, participant.ErrInvalidInput)
	repo.AssertExpectations(t)
}

func TestParticipantService_ListByRole(t *testing.T) {
	ctx := context.Background()
	role := participant.RoleStudent
	repo := &mocks.ParticipantRepository{}
	repo.On("List", ctx, &role).Return([]participant.Participant{{ID: 1, Role: role}}, nil)

	svc := participant.NewService(repo, nil)
	list, err := svc.ListByRole(ctx, role)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = svc.ListByRole(ctx, "XX")
	require.ErrorIs(t, err, participant.ErrInvalidInput)
}

func TestParticipant_Member(t *testing.T) {
	m, err := participant.Participant{ID: 1, Role: participant.RoleStudent}.Member()
	require.NoError(t, err)
	student, ok := m.(participant.Student)
	require.True(t, ok)
	require.Equal(t, participant.LevelNotApplicable, student.Level)

	m, err = participant.Participant{ID: 2, Role: participant.RoleProductManager}.Member()
	require.NoError(t, err)
	require.IsType(t, participant.ProductManager{}, m)
	require.Equal(t, int64(2), m.Info().ID)

	_, err = participant.Participant{ID: 3, Role: "XX"}.Member()
	require.ErrorIs(t, err, participant.ErrInvalidInput)
}
