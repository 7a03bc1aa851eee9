// Package scan finds the Python source files of a directory tree.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/matzehuels/importdeps/pkg/errors"
	"github.com/matzehuels/importdeps/pkg/module"
)

// Options configures a walk.
type Options struct {
	// Exclude holds gitignore-style patterns relative to the root.
	Exclude []string
	// RespectGitignore also applies the root's .gitignore.
	RespectGitignore bool
}

// Walk returns the paths of all source files below root, sorted. Hidden
// directories and __pycache__ are never entered. Returned paths are
// root-prefixed as produced by [filepath.WalkDir].
func Walk(ctx context.Context, root string, opts Options) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "%s is not a valid file or directory", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", root)
	}

	matcher, err := newMatcher(root, opts)
	if err != nil {
		return nil, err
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(d.Name()) || matcher.matches(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && strings.HasSuffix(d.Name(), module.SourceSuffix) && !matcher.matches(rel) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)
	return paths, nil
}

func skipDir(name string) bool {
	return name == "__pycache__" || (strings.HasPrefix(name, ".") && name != "." && name != "..")
}

// matcher combines the exclude patterns and an optional .gitignore.
type matcher struct {
	rules []*ignore.GitIgnore
}

func newMatcher(root string, opts Options) (*matcher, error) {
	m := &matcher{}
	if len(opts.Exclude) > 0 {
		m.rules = append(m.rules, ignore.CompileIgnoreLines(opts.Exclude...))
	}
	if opts.RespectGitignore {
		path := filepath.Join(root, ".gitignore")
		if _, err := os.Stat(path); err == nil {
			gi, err := ignore.CompileIgnoreFile(path)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
			}
			m.rules = append(m.rules, gi)
		}
	}
	return m, nil
}

func (m *matcher) matches(rel string) bool {
	for _, r := range m.rules {
		if r.MatchesPath(rel) {
			return true
		}
	}
	return false
}
