package transform_test

import (
	"fmt"

	"github.com/matzehuels/importdeps/pkg/dag"
	"github.com/matzehuels/importdeps/pkg/dag/transform"
)

func ExampleSort() {
	// app imports lib and util, lib imports util, docs stands alone.
	g, _ := dag.FromResults([]dag.Result{
		{Module: "app", Imports: []string{"lib", "util"}},
		{Module: "docs", Imports: []string{}},
		{Module: "lib", Imports: []string{"util"}},
		{Module: "util", Imports: []string{}},
	})

	fmt.Println(transform.Sort(g))
	// Output:
	// [util lib app docs]
}

func ExampleDetectCycles() {
	g, _ := dag.FromResults([]dag.Result{
		{Module: "a", Imports: []string{"b"}},
		{Module: "b", Imports: []string{"c"}},
		{Module: "c", Imports: []string{"a"}},
		{Module: "d", Imports: []string{"a"}},
	})

	for _, e := range transform.DetectCycles(g).Sorted() {
		fmt.Printf("%s -> %s\n", e.From, e.To)
	}
	// Output:
	// a -> b
	// b -> c
	// c -> a
}
