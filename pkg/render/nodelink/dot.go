package nodelink

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/importdeps/pkg/dag"
	"github.com/matzehuels/importdeps/pkg/dag/transform"
)

// Options configures DOT generation.
type Options struct {
	// HighlightCycles draws edges found on import cycles in red.
	HighlightCycles bool
}

const indent = "    "

// ToDOT converts an import graph to Graphviz DOT.
//
// Modules are grouped into nested clusters by package prefix, so "a.b.m" is
// declared inside cluster "a.b", itself inside cluster "a". Modules without
// a package are declared after the clusters. Edges follow in graph order;
// edges present in cycles are drawn red when opts.HighlightCycles is set.
func ToDOT(g *dag.Graph, cycles transform.EdgeSet, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph imports {\n")
	buf.WriteString(indent + "rankdir=LR;\n")

	tree := newClusterTree(g.Modules())
	for _, top := range tree.children("") {
		tree.write(&buf, top, 1)
	}
	for _, m := range tree.members[""] {
		fmt.Fprintf(&buf, "%s%q;\n", indent, m)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if opts.HighlightCycles && cycles.Has(e.From, e.To) {
			fmt.Fprintf(&buf, "%s%q -> %q [color=red, penwidth=2.0];\n", indent, e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "%s%q -> %q;\n", indent, e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// clusterTree indexes modules by their package prefix. The root prefix is "".
type clusterTree struct {
	members  map[string][]string
	packages map[string]bool
}

func newClusterTree(modules []string) *clusterTree {
	t := &clusterTree{members: make(map[string][]string), packages: make(map[string]bool)}
	for _, m := range modules {
		pkg := parent(m)
		t.members[pkg] = append(t.members[pkg], m)
		for p := pkg; p != ""; p = parent(p) {
			t.packages[p] = true
		}
	}
	for _, ms := range t.members {
		slices.Sort(ms)
	}
	return t
}

// children returns the packages directly below pkg, alphabetically.
func (t *clusterTree) children(pkg string) []string {
	var out []string
	for p := range t.packages {
		if parent(p) == pkg {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return out
}

func (t *clusterTree) write(buf *bytes.Buffer, pkg string, depth int) {
	ind := strings.Repeat(indent, depth)
	fmt.Fprintf(buf, "%ssubgraph cluster_%s {\n", ind, strings.ReplaceAll(pkg, ".", "_"))
	fmt.Fprintf(buf, "%s%slabel = %q;\n", ind, indent, pkg)
	fmt.Fprintf(buf, "%s%sstyle = rounded;\n", ind, indent)
	for _, m := range t.members[pkg] {
		fmt.Fprintf(buf, "%s%s%q;\n", ind, indent, m)
	}
	for _, sub := range t.children(pkg) {
		t.write(buf, sub, depth+1)
	}
	fmt.Fprintf(buf, "%s}\n", ind)
}

func parent(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return name[:i]
}

var edgeRe = regexp.MustCompile(`^\s*"((?:[^"\\]|\\.)*)"\s*->\s*"((?:[^"\\]|\\.)*)"`)

// ParseEdges reads the edge statements of a DOT document written by ToDOT,
// in document order. Lines that are not edges are skipped.
func ParseEdges(dot string) ([]dag.Edge, error) {
	if !strings.HasPrefix(strings.TrimSpace(dot), "digraph") {
		return nil, fmt.Errorf("not a digraph")
	}
	var edges []dag.Edge
	sc := bufio.NewScanner(strings.NewReader(dot))
	for sc.Scan() {
		m := edgeRe.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		from, err := strconv.Unquote(`"` + m[1] + `"`)
		if err != nil {
			return nil, fmt.Errorf("edge source %q: %w", m[1], err)
		}
		to, err := strconv.Unquote(`"` + m[2] + `"`)
		if err != nil {
			return nil, fmt.Errorf("edge target %q: %w", m[2], err)
		}
		edges = append(edges, dag.Edge{From: from, To: to})
	}
	return edges, sc.Err()
}

// Format is an output format produced by Render.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatDOT Format = "dot"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatSVG, FormatPNG, FormatDOT:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want svg, png or dot)", s)
}

// Render lays out dot with Graphviz and returns it in the given format.
// FormatDOT returns the source unchanged.
func Render(ctx context.Context, dot string, format Format) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return RenderSVG(ctx, dot)
	case FormatPNG:
		return RenderPNG(ctx, dot)
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderGraphviz(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderGraphviz(ctx, dot, graphviz.PNG)
}

func renderGraphviz(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag with a zero-origin viewBox and
// matching pixel size, so the image scales when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
