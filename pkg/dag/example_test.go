package dag_test

import (
	"fmt"

	"github.com/matzehuels/importdeps/pkg/dag"
)

func ExampleFromResults() {
	g, _ := dag.FromResults([]dag.Result{
		{Module: "app", Imports: []string{"lib", "util"}},
		{Module: "lib", Imports: []string{"util"}},
		{Module: "util", Imports: []string{}},
	})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("app imports:", g.Targets("app"))
	fmt.Println("util imported by:", g.Dependents("util"))
	// Output:
	// Nodes: 3
	// Edges: 3
	// app imports: [lib util]
	// util imported by: [app lib]
}

func ExampleGraph_Modules() {
	// Single-file analysis: only foo.a was analyzed.
	g, _ := dag.FromResults([]dag.Result{
		{Module: "foo.a", Imports: []string{"bar", "foo.b"}},
	})

	fmt.Println("Modules:", g.Modules())
	fmt.Println("All nodes:", g.NodeIDs())
	// Output:
	// Modules: [foo.a]
	// All nodes: [foo.a bar foo.b]
}
