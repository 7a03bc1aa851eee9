package nodelink

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/importdeps/pkg/dag"
	"github.com/matzehuels/importdeps/pkg/dag/transform"
)

func testGraph(t *testing.T) *dag.Graph {
	t.Helper()
	g, err := dag.FromResults([]dag.Result{
		{Module: "bar", Imports: []string{"foo.__init__"}},
		{Module: "foo.__init__", Imports: []string{}},
		{Module: "foo.a", Imports: []string{"bar", "foo.sub.b"}},
		{Module: "foo.sub.b", Imports: []string{"foo.a"}},
		{Module: "x.y.m", Imports: []string{}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

const wantDOT = `digraph imports {
    rankdir=LR;
    subgraph cluster_foo {
        label = "foo";
        style = rounded;
        "foo.__init__";
        "foo.a";
        subgraph cluster_foo_sub {
            label = "foo.sub";
            style = rounded;
            "foo.sub.b";
        }
    }
    subgraph cluster_x {
        label = "x";
        style = rounded;
        subgraph cluster_x_y {
            label = "x.y";
            style = rounded;
            "x.y.m";
        }
    }
    "bar";

    "bar" -> "foo.__init__";
    "foo.a" -> "bar";
    "foo.a" -> "foo.sub.b" [color=red, penwidth=2.0];
    "foo.sub.b" -> "foo.a" [color=red, penwidth=2.0];
}
`

func TestToDOT(t *testing.T) {
	g := testGraph(t)
	got := ToDOT(g, transform.DetectCycles(g), Options{HighlightCycles: true})
	if got != wantDOT {
		t.Errorf("ToDOT() =\n%s\nwant\n%s", got, wantDOT)
	}
}

func TestToDOTWithoutHighlight(t *testing.T) {
	g := testGraph(t)
	got := ToDOT(g, transform.DetectCycles(g), Options{})
	if strings.Contains(got, "color=red") {
		t.Error("ToDOT() should not highlight cycles when disabled")
	}
}

func TestToDOTReferenceNodesNotClustered(t *testing.T) {
	g, _ := dag.FromResults([]dag.Result{
		{Module: "foo.a", Imports: []string{"bar.b"}},
	})
	got := ToDOT(g, nil, Options{HighlightCycles: true})
	if strings.Contains(got, "cluster_bar") {
		t.Errorf("reference node should not get a cluster:\n%s", got)
	}
	if !strings.Contains(got, `"foo.a" -> "bar.b";`) {
		t.Errorf("missing edge to reference node:\n%s", got)
	}
}

func TestParseEdgesRoundTrip(t *testing.T) {
	g := testGraph(t)
	edges, err := ParseEdges(ToDOT(g, transform.DetectCycles(g), Options{HighlightCycles: true}))
	if err != nil {
		t.Fatalf("ParseEdges() error: %v", err)
	}
	if want := g.Edges(); !reflect.DeepEqual(edges, want) {
		t.Errorf("ParseEdges() = %v, want %v", edges, want)
	}
}

func TestParseEdgesRejectsNonDigraph(t *testing.T) {
	if _, err := ParseEdges("graph g { a -- b }"); err == nil {
		t.Error("ParseEdges() should reject undirected graphs")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{"PNG", FormatPNG, false},
		{"dot", FormatDOT, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	g := testGraph(t)
	dot := ToDOT(g, transform.DetectCycles(g), Options{HighlightCycles: true})
	ctx := context.Background()

	out, err := Render(ctx, dot, FormatDOT)
	if err != nil || string(out) != dot {
		t.Errorf("Render(dot) = %q, %v, want source unchanged", out, err)
	}

	svg, err := Render(ctx, dot, FormatSVG)
	if err != nil {
		t.Fatalf("Render(svg) error: %v", err)
	}
	if !bytes.Contains(svg, []byte(`viewBox="0 0 `)) {
		t.Error("SVG should have a normalized viewBox")
	}

	png, err := Render(ctx, dot, FormatPNG)
	if err != nil {
		t.Fatalf("Render(png) error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("PNG output should start with the PNG signature")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
	if plain := []byte("<svg><g/></svg>"); !bytes.Equal(normalizeViewBox(plain), plain) {
		t.Error("normalizeViewBox() should leave SVG without viewBox unchanged")
	}
}
