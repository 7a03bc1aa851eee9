// Package pkg holds the importdeps libraries.
//
// # Overview
//
// importdeps finds the import dependencies between the modules of a Python
// project without running it. The packages build on each other:
//
//  1. [module] - module identity, the module universe and import resolution
//  2. [pyimport] - import extraction from source with tree-sitter
//  3. [dag] - the import graph; [dag/transform] detects cycles and sorts it
//  4. [render/nodelink] - DOT output and Graphviz rendering
//  5. [pipeline] - orchestration (scan → extract → analyze → render)
//
// Supporting packages: [scan] walks source trees, [cache] stores extracted
// imports and rendered graphs, [config] reads settings, [io] reads and
// writes result files, [watch] re-runs analyses on change, [observability]
// exposes hooks, and [errors] defines the error codes.
//
// # Data Flow
//
//	*.py files
//	    ↓
//	[scan] + [module] (universe of modules by fully qualified name)
//	    ↓
//	[pyimport] (raw import records, cached by content hash)
//	    ↓
//	[module] (resolve to modules of the universe)
//	    ↓
//	[dag] + [dag/transform] (graph, cycle edges, dependency order)
//	    ↓
//	text / JSON / DOT / SVG / PNG
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Analyze(ctx, pipeline.Options{Path: "src/app"})
//	if err != nil {
//	    return err
//	}
//	for _, e := range res.Cycles.Sorted() {
//	    fmt.Printf("%s -> %s\n", e.From, e.To)
//	}
package pkg
