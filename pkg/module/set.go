package module

import (
	"maps"
	"slices"
	"strings"
)

// Set is the universe of modules taking part in one analysis.
//
// A Set is built once from a path collection and is read-only afterwards,
// so it is safe for concurrent lookups.
type Set struct {
	byPath   map[string]*Module
	byName   map[string]*Module
	packages map[string]struct{}
	order    []*Module
}

// NewSet builds a Set from paths. Construction fails as a whole if any path
// is not a Python module.
//
// When two paths produce the same FQN the later one wins in the name index.
func NewSet(paths []string) (*Set, error) {
	s := &Set{
		byPath:   make(map[string]*Module, len(paths)),
		byName:   make(map[string]*Module, len(paths)),
		packages: make(map[string]struct{}),
	}
	for _, p := range paths {
		m, err := New(p)
		if err != nil {
			return nil, err
		}
		if m.IsPackageInit() {
			s.packages[strings.Join(m.FQN[:len(m.FQN)-1], ".")] = struct{}{}
		}
		s.byPath[p] = m
		s.byName[m.Name()] = m
		s.order = append(s.order, m)
	}
	return s, nil
}

// Len returns the number of distinct module names.
func (s *Set) Len() int { return len(s.byName) }

// ByPath returns the module created from path.
func (s *Set) ByPath(path string) (*Module, bool) {
	m, ok := s.byPath[path]
	return m, ok
}

// ByName returns the module with the dotted name.
func (s *Set) ByName(name string) (*Module, bool) {
	m, ok := s.byName[name]
	return m, ok
}

// IsPackage reports whether name is the dotted prefix of a known package.
func (s *Set) IsPackage(name string) bool {
	_, ok := s.packages[name]
	return ok
}

// Names returns the distinct module names, sorted.
func (s *Set) Names() []string {
	return slices.Sorted(maps.Keys(s.byName))
}

// Modules returns the modules in the order their paths were given.
// Modules shadowed by a later duplicate name are included.
func (s *Set) Modules() []*Module {
	return s.order
}

// Collisions returns the names claimed by more than one path, mapped to the
// paths that produced them in input order.
func (s *Set) Collisions() map[string][]string {
	seen := make(map[string][]string)
	for _, m := range s.order {
		seen[m.Name()] = append(seen[m.Name()], m.Path)
	}
	out := make(map[string][]string)
	for name, paths := range seen {
		if len(paths) > 1 {
			out[name] = paths
		}
	}
	return out
}

// lookupStrategy produces a candidate module name for an imported name.
// ok is false when the strategy does not apply.
type lookupStrategy func(s *Set, name string) (candidate string, ok bool)

// lookupStrategies are evaluated in order; the first candidate present in
// the name index wins.
var lookupStrategies = []lookupStrategy{
	// import foo.bar
	func(_ *Set, name string) (string, bool) {
		return name, true
	},
	// from foo.bar import obj
	func(_ *Set, name string) (string, bool) {
		return stripLast(name), true
	},
	// import pkg
	func(s *Set, name string) (string, bool) {
		return name + "." + PackageMarker, s.IsPackage(name)
	},
	// from pkg import obj
	func(s *Set, name string) (string, bool) {
		stripped := stripLast(name)
		return stripped + "." + PackageMarker, s.IsPackage(stripped)
	},
}

// LookupImported finds the module an imported dotted name refers to.
// It returns false when the name is outside the set.
func (s *Set) LookupImported(name string) (*Module, bool) {
	for _, strategy := range lookupStrategies {
		candidate, ok := strategy(s, name)
		if !ok {
			continue
		}
		if m, found := s.byName[candidate]; found {
			return m, true
		}
	}
	return nil, false
}

func stripLast(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}
