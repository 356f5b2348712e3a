// Package matching proposes PM-led student teams from availability and
// pairwise constraints. It is pure: it reads its inputs and returns a
// proposal, leaving persistence to the caller.
package matching

import (
	"cmp"
	"slices"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/availability"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/constraint"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/participant"
)

// Options tunes the engine.
type Options struct {
	// MaxTeamSize caps the number of students per team. Zero means no cap.
	MaxTeamSize int
}

// Engine computes team proposals.
type Engine struct {
	opts Options
}

// New creates an engine.
func New(opts Options) *Engine {
	if opts.MaxTeamSize < 0 {
		opts.MaxTeamSize = 0
	}
	return &Engine{opts: opts}
}

// Team is one proposed team. Students are in the order they were added.
type Team struct {
	ManagerID  int64                  `json:"manager_id"`
	Time       availability.TimeOfDay `json:"time"`
	StudentIDs []int64                `json:"student_ids"`
}

// Reason explains why a student was left out.
type Reason string

const (
	// ReasonNoTeam means no free PM could take the student's group.
	ReasonNoTeam Reason = "no_team"
	// ReasonConstraintConflict means the student's together-group also
	// carries a separate constraint and cannot be placed as a unit.
	ReasonConstraintConflict Reason = "constraint_conflict"
	// ReasonGroupTooLarge means the together-group exceeds MaxTeamSize.
	ReasonGroupTooLarge Reason = "group_too_large"
)

// Unassigned is a student the proposal could not place.
type Unassigned struct {
	StudentID int64  `json:"student_id"`
	Reason    Reason `json:"reason"`
}

// Conflict is a together-group that also carries SEPARATE pairs inside it.
type Conflict struct {
	Group []int64           `json:"group"`
	Pairs []constraint.Pair `json:"pairs"`
}

// Proposal is the result of one engine pass.
type Proposal struct {
	Teams      []Team                  `json:"teams"`
	Unassigned []Unassigned            `json:"unassigned"`
	Conflicts  []Conflict              `json:"conflicts,omitempty"`
	Ignored    []constraint.Constraint `json:"ignored,omitempty"`
}

// AssignedCount returns the number of placed students.
func (p Proposal) AssignedCount() int {
	n := 0
	for _, t := range p.Teams {
		n += len(t.StudentIDs)
	}
	return n
}

// UnassignedIDs returns the IDs of unplaced students in ascending order.
func (p Proposal) UnassignedIDs() []int64 {
	ids := make([]int64, 0, len(p.Unassigned))
	for _, u := range p.Unassigned {
		ids = append(ids, u.StudentID)
	}
	return ids
}

// input is the indexed form of the engine's arguments.
type input struct {
	students   []int64
	managersAt map[availability.TimeOfDay][]int64
	times      []availability.TimeOfDay
	free       map[int64]map[availability.TimeOfDay]bool

	together    []constraint.Pair
	separate    []constraint.Pair
	separatedPM map[int64]map[int64]bool // manager -> students kept out of their team
	separatedSt map[int64][]int64
	ignored     []constraint.Constraint
}

// Propose matches students to managers. Participants holding a bound slot
// are already on a team and are left out entirely.
// The result depends only on the inputs, never on their order.
func (e *Engine) Propose(participants []participant.Participant, slots []availability.Slot, constraints []constraint.Constraint) (Proposal, error) {
	if err := Validate(participants, slots, constraints); err != nil {
		return Proposal{}, err
	}

	in := index(participants, slots, constraints)
	groups := buildGroups(in.students, in.together, in.separate, in.free)

	order := make([]*group, 0, len(groups))
	for _, g := range groups {
		if len(g.Conflicts) > 0 || e.tooLarge(len(g.Members)) {
			continue
		}
		order = append(order, g)
	}
	slices.SortStableFunc(order, func(a, b *group) int {
		if len(a.Members) != len(b.Members) {
			return cmp.Compare(len(b.Members), len(a.Members))
		}
		return cmp.Compare(a.ID, b.ID)
	})

	placed := make(map[int64]bool, len(groups))
	managed := make(map[int64]bool)
	proposal := Proposal{Teams: []Team{}, Unassigned: []Unassigned{}}

	for _, t := range in.times {
		for _, pm := range in.managersAt[t] {
			if managed[pm] {
				continue
			}
			members, used := e.fill(pm, t, order, placed, in)
			if len(members) == 0 {
				continue
			}
			for _, g := range used {
				placed[g.ID] = true
			}
			managed[pm] = true
			proposal.Teams = append(proposal.Teams, Team{ManagerID: pm, Time: t, StudentIDs: members})
		}
	}

	for _, g := range groups {
		if placed[g.ID] {
			continue
		}
		reason := ReasonNoTeam
		switch {
		case len(g.Conflicts) > 0:
			reason = ReasonConstraintConflict
			proposal.Conflicts = append(proposal.Conflicts, Conflict{Group: g.Members, Pairs: g.Conflicts})
		case e.tooLarge(len(g.Members)):
			reason = ReasonGroupTooLarge
		}
		for _, id := range g.Members {
			proposal.Unassigned = append(proposal.Unassigned, Unassigned{StudentID: id, Reason: reason})
		}
	}
	slices.SortFunc(proposal.Unassigned, func(a, b Unassigned) int {
		return cmp.Compare(a.StudentID, b.StudentID)
	})
	proposal.Ignored = in.ignored

	return proposal, nil
}

// fill greedily builds the team of one manager at one time.
func (e *Engine) fill(pm int64, t availability.TimeOfDay, order []*group, placed map[int64]bool, in input) ([]int64, []*group) {
	var members []int64
	var used []*group
	inTeam := make(map[int64]bool)

	for _, g := range order {
		if placed[g.ID] || !g.freeAt(t) {
			continue
		}
		if e.opts.MaxTeamSize > 0 && len(members)+len(g.Members) > e.opts.MaxTeamSize {
			continue
		}
		if blocked(g, pm, inTeam, in) {
			continue
		}
		for _, id := range g.Members {
			inTeam[id] = true
		}
		members = append(members, g.Members...)
		used = append(used, g)
	}
	return members, used
}

func blocked(g *group, pm int64, inTeam map[int64]bool, in input) bool {
	for _, id := range g.Members {
		if in.separatedPM[pm][id] {
			return true
		}
		for _, other := range in.separatedSt[id] {
			if inTeam[other] {
				return true
			}
		}
	}
	return false
}

func (e *Engine) tooLarge(size int) bool {
	return e.opts.MaxTeamSize > 0 && size > e.opts.MaxTeamSize
}

func index(participants []participant.Participant, slots []availability.Slot, constraints []constraint.Constraint) input {
	in := input{
		managersAt:  make(map[availability.TimeOfDay][]int64),
		free:        make(map[int64]map[availability.TimeOfDay]bool),
		separatedPM: make(map[int64]map[int64]bool),
		separatedSt: make(map[int64][]int64),
	}

	// A participant holding any bound slot already belongs to a team and
	// takes no part in this pass, neither as candidate nor as unassigned.
	placed := make(map[int64]bool)
	for _, s := range slots {
		if s.Bound() {
			placed[s.ParticipantID] = true
		}
	}

	roles := make(map[int64]participant.Role, len(participants))
	for _, p := range participants {
		roles[p.ID] = p.Role
		in.free[p.ID] = make(map[availability.TimeOfDay]bool)
		if p.IsStudent() && !placed[p.ID] {
			in.students = append(in.students, p.ID)
		}
	}
	slices.Sort(in.students)

	seenTime := make(map[availability.TimeOfDay]bool)
	for _, s := range slots {
		if placed[s.ParticipantID] || in.free[s.ParticipantID][s.Time] {
			continue
		}
		in.free[s.ParticipantID][s.Time] = true
		if !seenTime[s.Time] {
			seenTime[s.Time] = true
			in.times = append(in.times, s.Time)
		}
		if roles[s.ParticipantID] == participant.RoleProductManager {
			in.managersAt[s.Time] = append(in.managersAt[s.Time], s.ParticipantID)
		}
	}
	slices.Sort(in.times)
	for _, ids := range in.managersAt {
		slices.Sort(ids)
	}

	sorted := slices.Clone(constraints)
	slices.SortFunc(sorted, func(a, b constraint.Constraint) int {
		if c := comparePairs(a.Pair(), b.Pair()); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	for _, c := range sorted {
		pair := c.Pair()
		if c.Kind == constraint.KindUnset || placed[pair.A] || placed[pair.B] {
			continue
		}
		ra, rb := roles[pair.A], roles[pair.B]
		switch {
		case ra == participant.RoleStudent && rb == participant.RoleStudent:
			if c.Kind == constraint.KindTogether {
				in.together = append(in.together, pair)
			} else {
				in.separate = append(in.separate, pair)
				in.separatedSt[pair.A] = append(in.separatedSt[pair.A], pair.B)
				in.separatedSt[pair.B] = append(in.separatedSt[pair.B], pair.A)
			}
		case c.Kind == constraint.KindSeparate && ra != rb:
			pm, student := pair.A, pair.B
			if ra == participant.RoleStudent {
				pm, student = pair.B, pair.A
			}
			if in.separatedPM[pm] == nil {
				in.separatedPM[pm] = make(map[int64]bool)
			}
			in.separatedPM[pm][student] = true
		default:
			in.ignored = append(in.ignored, c)
		}
	}

	return in
}
