package distribution_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/activity"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/availability"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/constraint"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/distribution"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/participant"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/team"
	"github.com/OrionApplePie/ProjectsAutomation/internal/repository"
)

// memStore is an in-memory distribution.Store whose transactions roll back
// by restoring a snapshot.
type memStore struct {
	mu sync.Mutex

	participants []participant.Participant
	slots        []availability.Slot
	constraints  []constraint.Constraint
	projects     []team.Project
	teams        []team.TeamProject
	runs         []distribution.Run
	nextID       int64

	failBindFor int64
	entered     chan struct{}
	gate        chan struct{}
	enterOnce   sync.Once
}

func (m *memStore) addParticipant(p participant.Participant, times ...string) {
	m.participants = append(m.participants, p)
	for _, t := range times {
		m.nextID++
		m.slots = append(m.slots, availability.Slot{ID: m.nextID, ParticipantID: p.ID, Time: availability.MustParseTimeOfDay(t)})
	}
}

func (m *memStore) addConstraint(a, b int64, kind constraint.Kind) {
	m.nextID++
	pair := constraint.NewPair(a, b)
	m.constraints = append(m.constraints, constraint.Constraint{ID: m.nextID, First: pair.A, Second: pair.B, Kind: kind})
}

func (m *memStore) boundSlots() []availability.Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []availability.Slot
	for _, s := range m.slots {
		if s.Bound() {
			out = append(out, s)
		}
	}
	return out
}

func (m *memStore) ListParticipants(context.Context) ([]participant.Participant, error) {
	if m.gate != nil {
		m.enterOnce.Do(func() { close(m.entered) })
		<-m.gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.participants), nil
}

func (m *memStore) ListSlots(context.Context) ([]availability.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.slots), nil
}

func (m *memStore) ListConstraints(context.Context) ([]constraint.Constraint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.constraints), nil
}

func (m *memStore) ListProjects(context.Context) ([]team.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.projects), nil
}

func (m *memStore) ListTeams(context.Context) ([]team.TeamProject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.teams), nil
}

func (m *memStore) WithinTx(_ context.Context, fn func(tx distribution.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	slots := slices.Clone(m.slots)
	teams := slices.Clone(m.teams)
	runs := slices.Clone(m.runs)
	nextID := m.nextID

	if err := fn(memTx{m}); err != nil {
		m.slots, m.teams, m.runs, m.nextID = slots, teams, runs, nextID
		return err
	}
	return nil
}

// memTx runs with memStore.mu held.
type memTx struct {
	m *memStore
}

func (tx memTx) CreateRun(_ context.Context, run *distribution.Run) error {
	tx.m.runs = append(tx.m.runs, *run)
	return nil
}

func (tx memTx) CreateTeam(_ context.Context, tp *team.TeamProject) error {
	tx.m.nextID++
	tp.ID = tx.m.nextID
	tx.m.teams = append(tx.m.teams, *tp)
	return nil
}

func (tx memTx) BindSlot(_ context.Context, participantID int64, t availability.TimeOfDay, teamID int64, order int) error {
	if participantID == tx.m.failBindFor {
		return repository.ErrConflict
	}
	for i, s := range tx.m.slots {
		if s.ParticipantID == participantID && s.Time == t && !s.Bound() {
			id := teamID
			tx.m.slots[i].TeamProjectID = &id
			tx.m.slots[i].BindOrder = order
			return nil
		}
	}
	return repository.ErrConflict
}

func (tx memTx) LatestRun(context.Context) (*distribution.Run, error) {
	if len(tx.m.runs) == 0 {
		return nil, repository.ErrNotFound
	}
	run := tx.m.runs[len(tx.m.runs)-1]
	return &run, nil
}

func (tx memTx) ListRunTeams(_ context.Context, runID string) ([]int64, error) {
	var ids []int64
	for _, tp := range tx.m.teams {
		if tp.RunID == runID {
			ids = append(ids, tp.ID)
		}
	}
	return ids, nil
}

func (tx memTx) ReleaseTeam(_ context.Context, teamID int64) (int, error) {
	released := 0
	for i, s := range tx.m.slots {
		if s.TeamProjectID != nil && *s.TeamProjectID == teamID {
			tx.m.slots[i].TeamProjectID = nil
			tx.m.slots[i].BindOrder = 0
			released++
		}
	}
	tx.m.teams = slices.DeleteFunc(tx.m.teams, func(tp team.TeamProject) bool { return tp.ID == teamID })
	return released, nil
}

func (tx memTx) MarkRunCancelled(_ context.Context, runID string, at time.Time) error {
	for i, r := range tx.m.runs {
		if r.ID == runID {
			tx.m.runs[i].CancelledAt = &at
			return nil
		}
	}
	return repository.ErrNotFound
}

type recorder struct {
	mu    sync.Mutex
	types []activity.ActivityType
}

func (r *recorder) Record(_ context.Context, typ activity.ActivityType, _ string, _ any, _ ...activity.EntryOption) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, typ)
}

func (r *recorder) recorded() []activity.ActivityType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.types)
}
