package dag

import (
	"fmt"
	"slices"
)

// Result is the analysis of a single module: its dotted name and the sorted
// names of the tracked modules it imports.
type Result struct {
	Module  string   `json:"module"`
	Imports []string `json:"imports"`
}

// FromResults builds a graph from per-module results.
//
// Every Result.Module becomes a module node in result order. Imports naming
// a module that has no Result of its own become reference nodes, added in
// order of first appearance. Edges follow result order, then import order.
func FromResults(results []Result) (*Graph, error) {
	g := New()
	for _, r := range results {
		if err := g.AddNode(Node{ID: r.Module, Kind: NodeKindModule}); err != nil {
			return nil, fmt.Errorf("module %q: %w", r.Module, err)
		}
	}
	for _, r := range results {
		for _, imp := range r.Imports {
			if _, ok := g.nodes[imp]; !ok {
				if err := g.AddNode(Node{ID: imp, Kind: NodeKindReference}); err != nil {
					return nil, fmt.Errorf("import %q of %q: %w", imp, r.Module, err)
				}
			}
			if err := g.AddEdge(Edge{From: r.Module, To: imp}); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// Results returns one Result per module node, in graph order.
func (g *Graph) Results() []Result {
	var out []Result
	for _, id := range g.order {
		if !g.nodes[id].IsModule() {
			continue
		}
		imports := slices.Clone(g.outgoing[id])
		if imports == nil {
			imports = []string{}
		}
		out = append(out, Result{Module: id, Imports: imports})
	}
	return out
}
