package pipeline

import (
	"context"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/importdeps/pkg/cache"
	"github.com/matzehuels/importdeps/pkg/dag"
	"github.com/matzehuels/importdeps/pkg/dag/transform"
	"github.com/matzehuels/importdeps/pkg/errors"
	"github.com/matzehuels/importdeps/pkg/module"
	"github.com/matzehuels/importdeps/pkg/observability"
	"github.com/matzehuels/importdeps/pkg/pyimport"
	"github.com/matzehuels/importdeps/pkg/scan"
)

// Runner executes analyses with caching.
//
// The Runner holds no per-run state, so one Runner may serve several
// analyses concurrently, as in watch mode.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Analyze runs scan, extraction and analysis for opts.Path.
//
// For a directory, every module below it is analyzed. For a file, the
// universe is every module below the file's package root but only the file
// itself is analyzed.
func (r *Runner) Analyze(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	}
	start := time.Now()

	t, err := newTarget(opts.Path)
	if err != nil {
		return nil, err
	}
	result := &Result{Single: t.file != ""}

	// Stage 1: Scan
	scanStart := time.Now()
	observability.Pipeline().OnScanStart(ctx, t.root)
	paths, err := scan.Walk(ctx, t.root, scan.Options{
		Exclude:          opts.Exclude,
		RespectGitignore: opts.RespectGitignore,
	})
	if err == nil && t.file != "" && !slices.Contains(paths, t.file) {
		paths = append(paths, t.file)
	}
	result.Stats.ScanTime = time.Since(scanStart)
	observability.Pipeline().OnScanComplete(ctx, t.root, len(paths), result.Stats.ScanTime, err)
	if err != nil {
		return nil, err
	}
	result.Stats.FileCount = len(paths)

	set, err := module.NewSet(paths)
	if err != nil {
		return nil, err
	}
	result.Collisions = set.Collisions()
	for _, name := range slices.Sorted(maps.Keys(result.Collisions)) {
		logger.Warn("module name claimed by several files, using the last",
			"module", name, "paths", result.Collisions[name])
	}
	logger.Debug("scanned module universe", "root", t.root, "files", len(paths), "modules", set.Len())

	// Stage 2: Extract
	var mods []*module.Module
	if t.file != "" {
		m, _ := set.ByPath(t.file)
		mods = []*module.Module{m}
	} else {
		for _, name := range set.Names() {
			m, _ := set.ByName(name)
			mods = append(mods, m)
		}
	}

	extractStart := time.Now()
	x := pyimport.NewCached(pyimport.New(pyimport.WithMaxFileSize(opts.MaxFileSize)), r.Cache, r.Keyer).
		WithTTL(opts.CacheTTL).
		WithLogger(logger)
	results, failures, err := resolveAll(ctx, set, mods, x, opts, logger)
	if err != nil {
		return nil, err
	}
	result.Stats.ExtractTime = time.Since(extractStart)
	result.Stats.ParseFailures = failures

	// Stage 3: Analyze
	analyzeStart := time.Now()
	g, err := dag.FromResults(results)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build graph")
	}
	result.Graph = g
	result.Results = g.Results()
	result.Cycles = transform.DetectCycles(g)
	result.Order = transform.Sort(g)
	result.Stats.AnalyzeTime = time.Since(analyzeStart)

	result.Stats.ModuleCount = len(results)
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.CycleEdgeCount = len(result.Cycles)
	observability.Pipeline().OnAnalyzeComplete(ctx, result.Stats.ModuleCount, result.Stats.EdgeCount,
		result.Stats.CycleEdgeCount, time.Since(start), nil)

	logger.Debug("analyzed imports",
		"modules", result.Stats.ModuleCount,
		"edges", result.Stats.EdgeCount,
		"cycle_edges", result.Stats.CycleEdgeCount,
		"duration", time.Since(start))

	return result, nil
}

// resolveAll extracts and resolves mods in parallel. Results keep the order
// of mods.
func resolveAll(ctx context.Context, set *module.Set, mods []*module.Module, x module.Extractor, opts Options, logger *log.Logger) ([]dag.Result, int, error) {
	results := make([]dag.Result, len(mods))
	failed := make([]bool, len(mods))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)
	for i, m := range mods {
		g.Go(func() error {
			start := time.Now()
			raws, err := x.Extract(ctx, m.Path)
			observability.Pipeline().OnExtract(ctx, m.Path, len(raws), time.Since(start), err)
			if err != nil {
				if !opts.KeepGoing || !skippable(err) {
					return err
				}
				logger.Warn("skipping unreadable file", "path", m.Path, "err", errors.UserMessage(err))
				failed[i] = true
			}
			results[i] = dag.Result{Module: m.Name(), Imports: set.Resolve(m, raws)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	failures := 0
	for _, f := range failed {
		if f {
			failures++
		}
	}
	return results, failures, nil
}

// skippable reports whether --keep-going may report the file without imports.
func skippable(err error) bool {
	return errors.Is(err, errors.ErrCodeParse) || errors.Is(err, errors.ErrCodeFileTooLarge)
}

// target is the analyzed path split into the scanned root and, for
// single-file analysis, the file.
type target struct {
	root string
	file string
}

// newTarget resolves path against the working directory first, so that FQNs
// climb through every enclosing package even when the working directory is
// itself inside one.
func newTarget(path string) (target, error) {
	path = filepath.Clean(path)
	abs, err := filepath.Abs(path)
	if err != nil {
		return target{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "%s is not a valid file or directory", path)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return target{}, errors.New(errors.ErrCodeInvalidPath, "%s is not a valid file or directory", path)
	}
	if info.IsDir() {
		return target{root: abs}, nil
	}
	if !info.Mode().IsRegular() {
		return target{}, errors.New(errors.ErrCodeInvalidPath, "%s is not a valid file or directory", path)
	}
	m, err := module.New(abs)
	if err != nil {
		return target{}, err
	}
	return target{root: m.PackageRoot(), file: abs}, nil
}
