package matching

import (
	"cmp"
	"slices"

	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/availability"
	"github.com/OrionApplePie/ProjectsAutomation/internal/domain/constraint"
)

// unionFind tracks together-groups over student IDs.
type unionFind struct {
	parent map[int64]int64
	size   map[int64]int
}

func newUnionFind(ids []int64) *unionFind {
	uf := &unionFind{
		parent: make(map[int64]int64, len(ids)),
		size:   make(map[int64]int, len(ids)),
	}
	for _, id := range ids {
		uf.parent[id] = id
		uf.size[id] = 1
	}
	return uf
}

func (uf *unionFind) find(id int64) int64 {
	root := id
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for uf.parent[id] != root {
		next := uf.parent[id]
		uf.parent[id] = root
		id = next
	}
	return root
}

func (uf *unionFind) union(a, b int64) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.size[ra] < uf.size[rb] || (uf.size[ra] == uf.size[rb] && rb < ra) {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
}

// group is an indivisible placement unit. ID is its lowest member ID.
type group struct {
	ID        int64
	Members   []int64
	Times     map[availability.TimeOfDay]bool
	Conflicts []constraint.Pair
}

func (g *group) freeAt(t availability.TimeOfDay) bool {
	return g.Times[t]
}

// buildGroups collapses TOGETHER edges into groups and attaches to each group
// the SEPARATE pairs that fall inside it. Groups are returned ordered by ID.
func buildGroups(students []int64, together, separate []constraint.Pair, free map[int64]map[availability.TimeOfDay]bool) []*group {
	uf := newUnionFind(students)
	for _, p := range together {
		uf.union(p.A, p.B)
	}

	byRoot := make(map[int64]*group)
	var groups []*group
	for _, id := range students {
		root := uf.find(id)
		g, ok := byRoot[root]
		if !ok {
			g = &group{ID: id}
			byRoot[root] = g
			groups = append(groups, g)
		}
		g.Members = append(g.Members, id)
	}

	byStudent := make(map[int64]*group, len(students))
	for _, g := range groups {
		g.Times = commonTimes(g.Members, free)
		for _, id := range g.Members {
			byStudent[id] = g
		}
	}

	for _, p := range separate {
		g := byStudent[p.A]
		if g == byStudent[p.B] && !slices.Contains(g.Conflicts, p) {
			g.Conflicts = append(g.Conflicts, p)
		}
	}
	for _, g := range groups {
		slices.SortFunc(g.Conflicts, comparePairs)
	}

	return groups
}

func commonTimes(members []int64, free map[int64]map[availability.TimeOfDay]bool) map[availability.TimeOfDay]bool {
	times := make(map[availability.TimeOfDay]bool)
	for t := range free[members[0]] {
		times[t] = true
	}
	for _, id := range members[1:] {
		for t := range times {
			if !free[id][t] {
				delete(times, t)
			}
		}
	}
	return times
}

func comparePairs(a, b constraint.Pair) int {
	if a.A != b.A {
		return cmp.Compare(a.A, b.A)
	}
	return cmp.Compare(a.B, b.B)
}
