package module

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/importdeps/pkg/errors"
)

const (
	// SourceSuffix is the file extension of a Python module.
	SourceSuffix = ".py"

	// PackageMarker is the stem of the file that turns a directory into a package.
	PackageMarker = "__init__"
)

// Module is a single Python source file identified by its fully qualified name.
//
// The FQN is derived purely from directory structure: starting from the file
// stem, each parent directory is prepended while it is a package. No search
// path configuration participates.
type Module struct {
	// Path is the file path exactly as it was given.
	Path string

	// FQN holds the name segments from the top-most package down to the module.
	FQN []string
}

// New creates a Module for path and computes its FQN.
// It returns an INVALID_MODULE_PATH error if path does not end in ".py".
func New(path string) (*Module, error) {
	if filepath.Ext(path) != SourceSuffix {
		return nil, errors.New(errors.ErrCodeInvalidModulePath, "not a python module: %s", path)
	}
	return &Module{Path: path, FQN: fqnOf(path)}, nil
}

// IsPackage reports whether dir is a directory containing a package marker file.
func IsPackage(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	_, err = os.Stat(filepath.Join(dir, PackageMarker+SourceSuffix))
	return err == nil
}

// Name returns the dot-joined FQN.
func (m *Module) Name() string {
	return strings.Join(m.FQN, ".")
}

// IsPackageInit reports whether m is the marker module of a package.
func (m *Module) IsPackageInit() bool {
	return m.FQN[len(m.FQN)-1] == PackageMarker
}

// PackageRoot returns the directory that must be on the import search path
// for m to be importable by its FQN.
func (m *Module) PackageRoot() string {
	dir := m.Path
	for range m.FQN {
		dir = filepath.Dir(dir)
	}
	return dir
}

// String implements fmt.Stringer.
func (m *Module) String() string {
	return "<Module " + m.Path + ">"
}

func fqnOf(path string) []string {
	stem := strings.TrimSuffix(filepath.Base(path), SourceSuffix)
	names := []string{stem}

	current := path
	for {
		parent := filepath.Dir(current)
		if parent == current || isBoundary(filepath.Base(parent)) {
			break
		}
		if !IsPackage(parent) {
			break
		}
		names = append(names, filepath.Base(parent))
		current = parent
	}

	// collected bottom-up
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names
}

// isBoundary reports whether a directory name ends the upward walk.
func isBoundary(name string) bool {
	switch name {
	case "", ".", "..", string(filepath.Separator):
		return true
	}
	return false
}
