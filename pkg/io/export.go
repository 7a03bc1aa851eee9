package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/importdeps/pkg/dag"
	"github.com/matzehuels/importdeps/pkg/dag/transform"
)

// WriteJSON encodes results as indented JSON. A nil slice is written as [].
func WriteJSON(w io.Writer, results []dag.Result) error {
	if results == nil {
		results = []dag.Result{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes results to a JSON file at path.
func ExportJSON(path string, results []dag.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteText prints results as plain text. With single set, only the imports
// of the first result are printed, one per line. Otherwise each module is
// printed as "module:" followed by its imports indented by two spaces.
func WriteText(w io.Writer, results []dag.Result, single bool) error {
	if single {
		if len(results) == 0 {
			return nil
		}
		return writeLines(w, "", results[0].Imports)
	}
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "%s:\n", r.Module); err != nil {
			return err
		}
		if err := writeLines(w, "  ", r.Imports); err != nil {
			return err
		}
	}
	return nil
}

// WriteOrder prints one module name per line.
func WriteOrder(w io.Writer, order []string) error {
	return writeLines(w, "", order)
}

// WriteCycles prints cycle edges as "  src -> dst" lines in sorted order.
func WriteCycles(w io.Writer, cycles transform.EdgeSet) error {
	for _, e := range cycles.Sorted() {
		if _, err := fmt.Fprintf(w, "  %s -> %s\n", e.From, e.To); err != nil {
			return err
		}
	}
	return nil
}

func writeLines(w io.Writer, prefix string, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s%s\n", prefix, l); err != nil {
			return err
		}
	}
	return nil
}
