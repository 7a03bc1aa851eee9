package pyimport

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/matzehuels/importdeps/pkg/errors"
	"github.com/matzehuels/importdeps/pkg/module"
)

// Version identifies the extraction rules. It takes part in cache keys so
// that cached results are invalidated when the rules change.
const Version = "tree-sitter-python/2"

// DefaultMaxFileSize is the largest file Extract will parse.
const DefaultMaxFileSize = 10 * 1024 * 1024

// Option configures an Extractor.
type Option func(*Extractor)

// WithMaxFileSize sets the maximum file size the extractor will accept.
// Non-positive values are ignored.
func WithMaxFileSize(bytes int64) Option {
	return func(x *Extractor) {
		if bytes > 0 {
			x.maxFileSize = bytes
		}
	}
}

// Extractor reads import statements from Python source using tree-sitter.
//
// Extractor is safe for concurrent use: each call creates its own parser.
type Extractor struct {
	maxFileSize int64
}

// New creates an Extractor with the given options.
func New(opts ...Option) *Extractor {
	x := &Extractor{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Extract reads path and returns its raw imports in source order.
func (x *Extractor) Extract(ctx context.Context, path string) ([]module.RawImport, error) {
	content, err := x.read(path)
	if err != nil {
		return nil, err
	}
	return x.Parse(ctx, content, path)
}

func (x *Extractor) read(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > x.maxFileSize {
		return nil, errors.New(errors.ErrCodeFileTooLarge, "%s exceeds max file size (%d bytes)", path, x.maxFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return content, nil
}

// Parse returns the raw imports of content. filename is only used in errors.
//
// Imports are collected from the whole tree, including those nested inside
// functions, classes and conditional blocks. Source with syntax errors fails
// with a PARSE_ERROR and no imports.
func (x *Extractor) Parse(ctx context.Context, content []byte, filename string) ([]module.RawImport, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parse %s", filename)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(root, filename)
	}
	if err := legacyStatement(root, filename); err != nil {
		return nil, err
	}

	var imports []module.RawImport
	walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "import_statement":
			imports = append(imports, importStatement(n, content)...)
			return false
		case "import_from_statement", "future_import_statement":
			imports = append(imports, fromStatement(n, content)...)
			return false
		}
		return true
	})
	return imports, nil
}

// walk visits n and its descendants in source order. Children are skipped
// when visit returns false.
func walk(n *sitter.Node, visit func(*sitter.Node) bool) {
	if !visit(n) {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), visit)
	}
}

// importStatement handles "import a.b" and "import a.b as c".
func importStatement(n *sitter.Node, content []byte) []module.RawImport {
	var out []module.RawImport
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "dotted_name":
			out = append(out, module.RawImport{Name: dottedName(child, content)})
		case "aliased_import":
			name, alias := aliased(child, content)
			out = append(out, module.RawImport{Name: name, Alias: alias})
		}
	}
	return out
}

// fromStatement handles "from [.]*x import y [as z]", wildcard imports and
// __future__ imports.
func fromStatement(n *sitter.Node, content []byte) []module.RawImport {
	var (
		qualifier string
		level     int
		sawImport bool
		out       []module.RawImport
	)
	if n.Type() == "future_import_statement" {
		qualifier = "__future__"
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "import":
			sawImport = true
		case "relative_import":
			qualifier, level = relativeImport(child, content)
		case "dotted_name":
			if !sawImport {
				qualifier = dottedName(child, content)
				continue
			}
			out = append(out, module.RawImport{Qualifier: qualifier, Name: dottedName(child, content), Level: level})
		case "aliased_import":
			name, alias := aliased(child, content)
			out = append(out, module.RawImport{Qualifier: qualifier, Name: name, Alias: alias, Level: level})
		case "wildcard_import":
			out = append(out, module.RawImport{Qualifier: qualifier, Name: "*", Level: level})
		}
	}
	return out
}

// relativeImport returns the module part and the number of leading dots.
func relativeImport(n *sitter.Node, content []byte) (string, int) {
	var name string
	var level int
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "import_prefix":
			level = strings.Count(child.Content(content), ".")
		case "dotted_name":
			name = dottedName(child, content)
		}
	}
	return name, level
}

func aliased(n *sitter.Node, content []byte) (name, alias string) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "dotted_name":
			name = dottedName(child, content)
		case "identifier":
			alias = child.Content(content)
		}
	}
	return name, alias
}

// dottedName joins the identifiers of a dotted_name, dropping any
// whitespace or comments the source placed between them.
func dottedName(n *sitter.Node, content []byte) string {
	var parts []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "identifier" {
			parts = append(parts, child.Content(content))
		}
	}
	if len(parts) == 0 {
		return n.Content(content)
	}
	return strings.Join(parts, ".")
}

func syntaxError(root *sitter.Node, filename string) error {
	var bad *sitter.Node
	walk(root, func(n *sitter.Node) bool {
		if bad != nil {
			return false
		}
		if n.IsError() || n.IsMissing() {
			bad = n
			return false
		}
		return n.HasError()
	})
	if bad == nil {
		return errors.New(errors.ErrCodeParse, "invalid syntax in %s", filename)
	}
	p := bad.StartPoint()
	return errors.New(errors.ErrCodeParse, "invalid syntax in %s at line %d column %d", filename, p.Row+1, p.Column+1)
}

// legacyStatements are Python 2 statements the grammar still accepts.
var legacyStatements = map[string]string{
	"print_statement": "print",
	"exec_statement":  "exec",
}

// legacyStatement rejects source the grammar parses only as Python 2.
func legacyStatement(root *sitter.Node, filename string) error {
	var bad *sitter.Node
	walk(root, func(n *sitter.Node) bool {
		if bad != nil {
			return false
		}
		if _, ok := legacyStatements[n.Type()]; ok {
			bad = n
			return false
		}
		return true
	})
	if bad == nil {
		return nil
	}
	p := bad.StartPoint()
	return errors.New(errors.ErrCodeParse, "invalid syntax in %s at line %d column %d: %s statement",
		filename, p.Row+1, p.Column+1, legacyStatements[bad.Type()])
}
