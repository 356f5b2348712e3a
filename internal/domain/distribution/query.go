package distribution

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/availability"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/participant"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/team"
)

// ListFormedTeams returns every team with bound slots, ordered by call time
// and then team ID.
func (s *Service) ListFormedTeams(ctx context.Context) ([]FormedTeam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	teams, err := s.store.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading teams: %w", err)
	}
	slots, err := s.store.ListSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading slots: %w", err)
	}
	people, err := s.participantsByID(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}
	projectByID := make(map[int64]team.Project, len(projects))
	for _, p := range projects {
		projectByID[p.ID] = p
	}

	bound := make(map[int64][]availability.Slot)
	for _, slot := range slots {
		if slot.Bound() {
			bound[*slot.TeamProjectID] = append(bound[*slot.TeamProjectID], slot)
		}
	}

	formed := make([]FormedTeam, 0, len(teams))
	for _, tp := range teams {
		members := bound[tp.ID]
		if len(members) == 0 {
			continue
		}
		slices.SortFunc(members, func(a, b availability.Slot) int {
			if a.BindOrder != b.BindOrder {
				return cmp.Compare(a.BindOrder, b.BindOrder)
			}
			return cmp.Compare(a.ParticipantID, b.ParticipantID)
		})

		ft := FormedTeam{
			Team:     tp,
			Manager:  people[tp.ManagerID],
			Students: []participant.Participant{},
			Time:     tp.Time,
		}
		if tp.ProjectID != nil {
			if p, ok := projectByID[*tp.ProjectID]; ok {
				ft.Project = &p
			}
		}
		for _, slot := range members {
			p, ok := people[slot.ParticipantID]
			if !ok || slot.ParticipantID == tp.ManagerID || !p.IsStudent() {
				continue
			}
			ft.Students = append(ft.Students, p)
		}
		formed = append(formed, ft)
	}

	slices.SortFunc(formed, func(a, b FormedTeam) int {
		if a.Time != b.Time {
			return cmp.Compare(a.Time, b.Time)
		}
		return cmp.Compare(a.Team.ID, b.Team.ID)
	})
	return formed, nil
}

// ListUnallocatedStudents returns students with no bound slot, ordered by ID.
func (s *Service) ListUnallocatedStudents(ctx context.Context) ([]participant.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	participants, err := s.store.ListParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading participants: %w", err)
	}
	slots, err := s.store.ListSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading slots: %w", err)
	}

	allocated := make(map[int64]bool)
	for _, slot := range slots {
		if slot.Bound() {
			allocated[slot.ParticipantID] = true
		}
	}

	unallocated := []participant.Participant{}
	for _, p := range participants {
		if p.IsStudent() && !allocated[p.ID] {
			unallocated = append(unallocated, p)
		}
	}
	slices.SortFunc(unallocated, func(a, b participant.Participant) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return unallocated, nil
}

// ListFreeManagerTimes returns the distinct times at which some manager still
// has an unbound slot, in ascending order.
func (s *Service) ListFreeManagerTimes(ctx context.Context) ([]availability.TimeOfDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	people, err := s.participantsByID(ctx)
	if err != nil {
		return nil, err
	}
	slots, err := s.store.ListSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading slots: %w", err)
	}

	times := []availability.TimeOfDay{}
	for _, slot := range slots {
		if slot.Bound() || !people[slot.ParticipantID].IsManager() {
			continue
		}
		if !slices.Contains(times, slot.Time) {
			times = append(times, slot.Time)
		}
	}
	slices.Sort(times)
	return times, nil
}

func (s *Service) participantsByID(ctx context.Context) (map[int64]participant.Participant, error) {
	participants, err := s.store.ListParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading participants: %w", err)
	}
	byID := make(map[int64]participant.Participant, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}
	return byID, nil
}
