package dag

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Metadata stores arbitrary key-value pairs attached to nodes, typically the
// source path of a module. Metadata maps are never nil after AddNode.
type Metadata map[string]any

// NodeKind distinguishes analyzed modules from import targets that were
// resolved but not analyzed themselves.
type NodeKind int

const (
	// NodeKindModule is a module whose own imports are part of the graph.
	NodeKindModule NodeKind = iota
	// NodeKindReference is an import target without outgoing edges of its
	// own, as in single-file analysis where only one module is analyzed.
	NodeKindReference
)

// Node is a vertex of the import graph. ID is the dotted module name.
type Node struct {
	ID   string
	Kind NodeKind
	Meta Metadata
}

// IsModule reports whether the node is an analyzed module.
func (n Node) IsModule() bool { return n.Kind == NodeKindModule }

// Edge is a directed import: From imports To.
type Edge struct {
	From string
	To   string
}

// Graph is a directed import graph that may contain cycles.
//
// Nodes and edges are kept in insertion order so that every traversal built
// on top of the graph is deterministic. The zero value is not usable; use
// [New]. Graph is not safe for concurrent use.
type Graph struct {
	nodes    map[string]*Node
	order    []string
	edges    []Edge
	edgeSet  map[Edge]struct{}
	outgoing map[string][]string // nodeID -> imported IDs
	incoming map[string][]string // nodeID -> importer IDs
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		edgeSet:  make(map[Edge]struct{}),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node. The node's Meta field is initialized if nil.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	g.nodes[n.ID] = &n
	g.order = append(g.order, n.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Adding an edge
// that already exists is a no-op.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if _, dup := g.edgeSet[e]; dup {
		return nil
	}
	g.edgeSet[e] = struct{}{}
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// IsModule reports whether id is an analyzed module of the graph.
func (g *Graph) IsModule(id string) bool {
	n, ok := g.nodes[id]
	return ok && n.IsModule()
}

// NodeIDs returns all node IDs in insertion order.
func (g *Graph) NodeIDs() []string { return slices.Clone(g.order) }

// Modules returns the IDs of module-kind nodes in insertion order.
func (g *Graph) Modules() []string {
	var ids []string
	for _, id := range g.order {
		if g.nodes[id].IsModule() {
			ids = append(ids, id)
		}
	}
	return ids
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// HasEdge reports whether the edge from→to exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edgeSet[Edge{From: from, To: to}]
	return ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Targets returns the IDs id imports, in insertion order. The returned slice
// should not be modified.
func (g *Graph) Targets(id string) []string { return g.outgoing[id] }

// Dependents returns the IDs importing id, in insertion order. The returned
// slice should not be modified.
func (g *Graph) Dependents(id string) []string { return g.incoming[id] }
