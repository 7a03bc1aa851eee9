package module

import (
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/importdeps/pkg/errors"
)

// RawImport is one imported name as written in the source.
//
//	import a.b as c       -> {Name: "a.b", Alias: "c"}
//	from ..x import y     -> {Qualifier: "x", Name: "y", Level: 2}
//	from . import z       -> {Name: "z", Level: 1}
type RawImport struct {
	Qualifier string `json:"qualifier,omitempty"`
	Name      string `json:"name"`
	Alias     string `json:"alias,omitempty"`
	Level     int    `json:"level,omitempty"`
}

// Full joins the qualifier and the name, skipping empty parts.
func (r RawImport) Full() string {
	switch {
	case r.Qualifier == "":
		return r.Name
	case r.Name == "":
		return r.Qualifier
	}
	return r.Qualifier + "." + r.Name
}

// Extractor reads the raw imports of a Python file in source order.
// Implementations return a PARSE_ERROR for files that are not valid Python.
type Extractor interface {
	Extract(ctx context.Context, path string) ([]RawImport, error)
}

// Candidate returns the absolute dotted name that r refers to when written
// inside m. Relative imports drop the last Level segments of m's FQN.
func (r RawImport) Candidate(m *Module) string {
	full := r.Full()
	if r.Level <= 0 {
		return full
	}
	keep := len(m.FQN) - r.Level
	if keep < 0 {
		keep = 0
	}
	parts := append(slices.Clone(m.FQN[:keep]), full)
	return strings.Join(parts, ".")
}

// Resolve maps the raw imports of m to the modules they refer to and returns
// their dotted names, sorted. Imports outside the set are dropped.
func (s *Set) Resolve(m *Module, raws []RawImport) []string {
	return s.resolve(m, raws, (*Module).Name)
}

// ResolvePaths is like Resolve but returns module paths.
func (s *Set) ResolvePaths(m *Module, raws []RawImport) []string {
	return s.resolve(m, raws, func(t *Module) string { return t.Path })
}

func (s *Set) resolve(m *Module, raws []RawImport, key func(*Module) string) []string {
	seen := make(map[string]struct{})
	for _, r := range raws {
		target, ok := s.LookupImported(r.Candidate(m))
		if !ok {
			continue
		}
		seen[key(target)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// ModImports extracts and resolves the imports of the module named fqn.
func (s *Set) ModImports(ctx context.Context, fqn string, x Extractor) ([]string, error) {
	if err := errors.ValidateModuleName(fqn); err != nil {
		return nil, err
	}
	m, ok := s.byName[fqn]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownModule, "unknown module: %s", fqn)
	}
	raws, err := x.Extract(ctx, m.Path)
	if err != nil {
		return nil, err
	}
	return s.Resolve(m, raws), nil
}
