// Package pipeline runs a complete import analysis.
//
// The pipeline has three stages:
//
//  1. Scan: collect the module universe, either the analyzed directory or,
//     for a single file, the package root containing it
//  2. Extract: read and resolve the imports of every analyzed module in
//     parallel, through the extraction cache
//  3. Analyze: build the graph, detect cycles and sort it
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Analyze(ctx, pipeline.Options{Path: "src/app"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Order)
//
// [Runner.Render] turns a result into DOT, SVG or PNG, caching rendered
// artifacts by DOT content.
package pipeline

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/importdeps/pkg/dag"
	"github.com/matzehuels/importdeps/pkg/dag/transform"
	"github.com/matzehuels/importdeps/pkg/errors"
)

// Options configures an analysis.
type Options struct {
	// Path is the Python file or directory to analyze.
	Path string

	// Jobs bounds parallel extraction. Defaults to the number of CPUs.
	Jobs int

	// Exclude holds gitignore-style patterns relative to the scanned root.
	Exclude []string

	// RespectGitignore applies the scanned root's .gitignore.
	RespectGitignore bool

	// MaxFileSize is the largest source file parsed, in bytes.
	MaxFileSize int64

	// CacheTTL is how long extracted imports stay cached. Zero keeps the
	// cache default.
	CacheTTL time.Duration

	// KeepGoing reports files that fail to parse or exceed MaxFileSize as
	// modules without imports instead of failing the analysis.
	KeepGoing bool

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks required fields and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Path == "" {
		return errors.New(errors.ErrCodeInvalidInput, "path is required")
	}
	if o.Jobs < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "jobs must not be negative, got %d", o.Jobs)
	}
	if o.Jobs == 0 {
		o.Jobs = runtime.NumCPU()
	}
	o.validated = true
	return nil
}

// Result is the outcome of an analysis.
type Result struct {
	// Graph holds one module node per analyzed module. In single-file mode
	// the imports of the file are reference nodes.
	Graph *dag.Graph

	// Results are the per-module imports in module name order.
	Results []dag.Result

	// Cycles are the edges on import cycles.
	Cycles transform.EdgeSet

	// Order is the dependency-first module order.
	Order []string

	// Single is set when Path named a file.
	Single bool

	// Collisions maps module names claimed by several files to those files.
	Collisions map[string][]string

	Stats Stats
}

// Stats contains analysis statistics.
type Stats struct {
	FileCount      int
	ModuleCount    int
	EdgeCount      int
	CycleEdgeCount int
	ParseFailures  int
	ScanTime       time.Duration
	ExtractTime    time.Duration
	AnalyzeTime    time.Duration
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
