// Package transform provides analyses over an import [dag.Graph].
//
// # Cycle Detection
//
// [DetectCycles] runs a depth-first search over the analyzed modules and
// returns the edges of every import cycle it finds as a flat [EdgeSet].
// Renderers use the set to highlight cyclic edges and the CLI uses it for
// --check:
//
//	cycles := transform.DetectCycles(g)
//	for _, e := range cycles.Sorted() {
//	    fmt.Printf("%s -> %s\n", e.From, e.To)
//	}
//
// # Topological Sort
//
// [Sort] returns the modules ordered so that imported modules precede the
// modules importing them. Among modules that are ready at the same time,
// those imported by longer chains come first. The result is total and
// deterministic even when the graph has cycles:
//
//  1. acyclic modules in dependency order
//  2. modules on or behind a cycle, alphabetically
//  3. modules with no imports in either direction, alphabetically
//
// Both analyses ignore edges into reference nodes, so a single-file graph
// yields the analyzed module alone.
package transform
