package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/importdeps/pkg/dag"
	"github.com/matzehuels/importdeps/pkg/errors"
)

// ReadJSON decodes results from r.
//
// Module and import names must be non-empty and module names unique.
// Names are not checked further since file stems need not be identifiers.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) ([]dag.Result, error) {
	var results []dag.Result
	if err := json.NewDecoder(r).Decode(&results); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode results")
	}

	seen := make(map[string]bool, len(results))
	for i, res := range results {
		if res.Module == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "result %d: module name is empty", i)
		}
		if seen[res.Module] {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "result %d: duplicate module %q", i, res.Module)
		}
		seen[res.Module] = true
		for _, imp := range res.Imports {
			if imp == "" {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "module %s: empty import name", res.Module)
			}
		}
		if res.Imports == nil {
			results[i].Imports = []string{}
		}
	}
	return results, nil
}

// ImportJSON reads results from the file at path and builds their graph.
func ImportJSON(path string) (*dag.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	results, err := ReadJSON(f)
	if err != nil {
		return nil, err
	}
	return dag.FromResults(results)
}
