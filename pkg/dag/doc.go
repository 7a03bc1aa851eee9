// Package dag provides the directed import graph analyzed by importdeps.
//
// # Overview
//
// A [Graph] maps each module to the modules it imports. Despite the package
// name the graph may contain cycles; finding them is the job of the
// [transform] subpackage. Nodes and edges keep insertion order, which makes
// cycle detection, sorting and rendering reproducible across runs.
//
// # Basic Usage
//
// Most graphs are built from analysis results with [FromResults]:
//
//	g, err := dag.FromResults([]dag.Result{
//	    {Module: "app", Imports: []string{"lib"}},
//	    {Module: "lib", Imports: []string{}},
//	})
//
// Query the structure with [Graph.Targets], [Graph.Dependents] and
// [Graph.Modules]. [Graph.Results] converts back.
//
// # Node Kinds
//
//   - [NodeKindModule]: a module whose imports were analyzed
//   - [NodeKindReference]: an import target only, as in single-file mode
//
// Traversals in [transform] only follow edges into module-kind nodes.
//
// [transform]: github.com/matzehuels/importdeps/pkg/dag/transform
package dag
