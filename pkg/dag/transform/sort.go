package transform

import (
	"cmp"
	"slices"

	"github.com/matzehuels/importdeps/pkg/dag"
)

// cyclic is the rank of a module found on a cycle while ranking.
const cyclic = -1

// Sort orders the module nodes of g so that every module comes after the
// modules it imports.
//
// Ready modules are emitted by descending rank, where a module's rank is one
// more than the highest rank among the modules importing it; modules nobody
// imports have rank 1. Ties keep queue arrival order, and the initial queue
// is ordered by name. Modules on a cycle, and modules that depend on them,
// follow in alphabetical order. Modules with no imports in either direction
// come last, also alphabetically.
func Sort(g *dag.Graph) []string {
	modules := g.Modules()

	dependencies := make(map[string][]string, len(modules))
	dependents := make(map[string][]string, len(modules))
	for _, m := range modules {
		for _, t := range g.Targets(m) {
			if g.IsModule(t) {
				dependencies[m] = append(dependencies[m], t)
				dependents[t] = append(dependents[t], m)
			}
		}
	}

	isolated := make(map[string]bool)
	for _, m := range modules {
		if len(dependencies[m]) == 0 && len(dependents[m]) == 0 {
			isolated[m] = true
		}
	}

	rank := newRanker(dependents).rankAll(modules)
	skip := func(m string) bool { return isolated[m] || rank[m] == cyclic }

	inDegree := make(map[string]int, len(modules))
	var queue []string
	for _, m := range modules {
		inDegree[m] = len(dependencies[m])
		if inDegree[m] == 0 && !skip(m) {
			queue = append(queue, m)
		}
	}
	slices.SortFunc(queue, func(a, b string) int {
		if c := cmp.Compare(rank[b], rank[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	order := make([]string, 0, len(modules))
	emitted := make(map[string]bool, len(modules))
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		order = append(order, m)
		emitted[m] = true

		for _, d := range dependents[m] {
			if skip(d) {
				continue
			}
			inDegree[d]--
			if inDegree[d] == 0 {
				queue = insertByRank(queue, d, rank)
			}
		}
	}

	var rest, alone []string
	for _, m := range modules {
		switch {
		case emitted[m]:
		case isolated[m]:
			alone = append(alone, m)
		default:
			rest = append(rest, m)
		}
	}
	slices.Sort(rest)
	slices.Sort(alone)
	order = append(order, rest...)
	return append(order, alone...)
}

// insertByRank inserts m before the first queued module with a strictly
// lower rank, keeping arrival order among equal ranks.
func insertByRank(queue []string, m string, rank map[string]int) []string {
	i := slices.IndexFunc(queue, func(q string) bool { return rank[q] < rank[m] })
	if i < 0 {
		return append(queue, m)
	}
	return slices.Insert(queue, i, m)
}

// ranker computes module ranks by depth-first search over dependents.
type ranker struct {
	dependents map[string][]string
	rank       map[string]int
	onPath     map[string]bool
	path       []string
}

func newRanker(dependents map[string][]string) *ranker {
	return &ranker{
		dependents: dependents,
		rank:       make(map[string]int),
		onPath:     make(map[string]bool),
	}
}

func (r *ranker) rankAll(modules []string) map[string]int {
	for _, m := range modules {
		r.visit(m)
	}
	return r.rank
}

func (r *ranker) visit(m string) int {
	if r.onPath[m] {
		start := slices.Index(r.path, m)
		for _, id := range r.path[start:] {
			r.rank[id] = cyclic
		}
		return cyclic
	}
	if v, ok := r.rank[m]; ok {
		return v
	}

	r.onPath[m] = true
	r.path = append(r.path, m)

	best := 0
	for _, d := range r.dependents[m] {
		if v := r.visit(d); v != cyclic && v > best {
			best = v
		}
	}

	r.onPath[m] = false
	r.path = r.path[:len(r.path)-1]

	// Flagged while its dependents were searched.
	if r.rank[m] == cyclic {
		return cyclic
	}

	v := best + 1
	switch {
	case len(r.dependents[m]) == 0:
		v = 1
	case best == 0:
		v = 2
	}
	r.rank[m] = v
	return v
}
