package mocks

import (
	"context"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/activity"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/availability"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/constraint"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/participant"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/team"
	"github.com/stretchr/testify/mock"
)

// ParticipantRepository is a mock for participant.Repository.
type ParticipantRepository struct {
	mock.Mock
}

func (m *ParticipantRepository) Create(ctx context.Context, p *participant.Participant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ParticipantRepository) Get(ctx context.Context, id int64) (*participant.Participant, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*participant.Participant); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ParticipantRepository) GetByUsername(ctx context.Context, username string) (*participant.Participant, error) {
	args := m.Called(ctx, username)
	if p, ok := args.Get(0).(*participant.Participant); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ParticipantRepository) List(ctx context.Context, role *participant.Role) ([]participant.Participant, error) {
	args := m.Called(ctx, role)
	if list, ok := args.Get(0).([]participant.Participant); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ParticipantRepository) SetTelegramID(ctx context.Context, id, telegramID int64) error {
	args := m.Called(ctx, id, telegramID)
	return args.Error(0)
}

// SlotRepository is a mock for availability.Repository.
type SlotRepository struct {
	mock.Mock
}

func (m *SlotRepository) Add(ctx context.Context, slot *availability.Slot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

func (m *SlotRepository) Get(ctx context.Context, participantID int64, t availability.TimeOfDay) (*availability.Slot, error) {
	args := m.Called(ctx, participantID, t)
	if slot, ok := args.Get(0).(*availability.Slot); ok {
		return slot, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SlotRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SlotRepository) ListByParticipant(ctx context.Context, participantID int64) ([]availability.Slot, error) {
	args := m.Called(ctx, participantID)
	if list, ok := args.Get(0).([]availability.Slot); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SlotRepository) List(ctx context.Context) ([]availability.Slot, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]availability.Slot); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ConstraintRepository is a mock for constraint.Repository.
type ConstraintRepository struct {
	mock.Mock
}

func (m *ConstraintRepository) Upsert(ctx context.Context, c *constraint.Constraint) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ConstraintRepository) Delete(ctx context.Context, pair constraint.Pair) error {
	args := m.Called(ctx, pair)
	return args.Error(0)
}

func (m *ConstraintRepository) List(ctx context.Context) ([]constraint.Constraint, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]constraint.Constraint); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ProjectRepository is a mock for team.ProjectRepository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *team.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id int64) (*team.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*team.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) GetByName(ctx context.Context, name string) (*team.Project, error) {
	args := m.Called(ctx, name)
	if proj, ok := args.Get(0).(*team.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context) ([]team.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]team.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// TeamRepository is a mock for team.Repository.
type TeamRepository struct {
	mock.Mock
}

func (m *TeamRepository) Get(ctx context.Context, id int64) (*team.TeamProject, error) {
	args := m.Called(ctx, id)
	if tp, ok := args.Get(0).(*team.TeamProject); ok {
		return tp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TeamRepository) List(ctx context.Context) ([]team.TeamProject, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]team.TeamProject); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TeamRepository) SetLinks(ctx context.Context, id int64, discord, trello string) error {
	args := m.Called(ctx, id, discord, trello)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
