package transform

import (
	"cmp"
	"slices"

	"github.com/matzehuels/importdeps/pkg/dag"
)

// EdgeSet is a set of import edges.
type EdgeSet map[dag.Edge]struct{}

// Has reports whether the edge from→to is in the set.
func (s EdgeSet) Has(from, to string) bool {
	_, ok := s[dag.Edge{From: from, To: to}]
	return ok
}

// Sorted returns the edges ordered by source, then target.
func (s EdgeSet) Sorted() []dag.Edge {
	edges := make([]dag.Edge, 0, len(s))
	for e := range s {
		edges = append(edges, e)
	}
	slices.SortFunc(edges, func(a, b dag.Edge) int {
		if c := cmp.Compare(a.From, b.From); c != 0 {
			return c
		}
		return cmp.Compare(a.To, b.To)
	})
	return edges
}

// DetectCycles returns every edge that lies on an import cycle found by a
// depth-first search over the module nodes of g.
//
// The search starts from each unvisited module in graph order and only
// follows edges into module-kind nodes. When it reaches a module that is on
// the current path, the path edges from that module onward and the closing
// edge are all added to the result. Nodes are never revisited, so a cycle
// only reachable through an already finished node may be reported partially.
func DetectCycles(g *dag.Graph) EdgeSet {
	cycles := EdgeSet{}
	visited := make(map[string]bool)
	onPath := make(map[string]bool)
	var path []string

	var dfs func(id string)
	dfs = func(id string) {
		visited[id] = true
		onPath[id] = true
		path = append(path, id)

		for _, next := range g.Targets(id) {
			switch {
			case !visited[next]:
				if g.IsModule(next) {
					dfs(next)
				}
			case onPath[next]:
				start := slices.Index(path, next)
				for i := start; i < len(path)-1; i++ {
					cycles[dag.Edge{From: path[i], To: path[i+1]}] = struct{}{}
				}
				cycles[dag.Edge{From: id, To: next}] = struct{}{}
			}
		}

		onPath[id] = false
		path = path[:len(path)-1]
	}

	for _, id := range g.Modules() {
		if !visited[id] {
			dfs(id)
		}
	}
	return cycles
}

// HasCycles reports whether g contains an import cycle between modules.
func HasCycles(g *dag.Graph) bool {
	return len(DetectCycles(g)) > 0
}
