// Package nodelink renders import graphs as Graphviz node-link diagrams.
//
// # DOT Format
//
// [ToDOT] produces a left-to-right digraph with one nested cluster per
// package, so the drawing mirrors the directory tree:
//
//	digraph imports {
//	    rankdir=LR;
//	    subgraph cluster_foo {
//	        label = "foo";
//	        style = rounded;
//	        "foo.a";
//	        "foo.b";
//	    }
//
//	    "foo.a" -> "foo.b";
//	    "foo.b" -> "foo.a" [color=red, penwidth=2.0];
//	}
//
// Edges on import cycles are drawn red. [ParseEdges] reads the edges back.
//
// # Rendering
//
// [Render] converts DOT to SVG or PNG in-process with
// [github.com/goccy/go-graphviz]; no Graphviz installation is needed.
//
//	dot := nodelink.ToDOT(g, transform.DetectCycles(g), nodelink.Options{HighlightCycles: true})
//	svg, err := nodelink.Render(ctx, dot, nodelink.FormatSVG)
package nodelink
