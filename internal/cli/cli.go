// Package cli implements the importdeps command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/importdeps/pkg/buildinfo"
	"github.com/matzehuels/importdeps/pkg/cache"
	"github.com/matzehuels/importdeps/pkg/config"
	"github.com/matzehuels/importdeps/pkg/errors"
	"github.com/matzehuels/importdeps/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "importdeps"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// ErrCheckFailed is returned by --check when cycles were found. The cycles
// have already been reported, so callers should exit without printing it.
var ErrCheckFailed = errors.New(errors.ErrCodeCyclesFound, "circular dependencies detected")

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The root command itself analyzes a path.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.analyzeCommand()
	root.Version = buildinfo.Version
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.graphCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Source Flags
// =============================================================================

// sourceFlags are shared by every command that analyzes a path.
type sourceFlags struct {
	noCache    bool
	configPath string
	jobs       int
	exclude    []string
	keepGoing  bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the extraction cache")
	cmd.Flags().StringVar(&f.configPath, "config", "", "settings file (default: .importdeps.toml or pyproject.toml in PATH)")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", 0, "parallel extraction jobs (default: number of CPUs)")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "gitignore-style pattern to skip (repeatable)")
	cmd.Flags().BoolVar(&f.keepGoing, "keep-going", false, "report unparsable or oversized files as modules without imports")
}

// session is a runner plus the options for one analyzed path.
type session struct {
	runner *pipeline.Runner
	opts   pipeline.Options
	cache  cache.Cache
}

func (s *session) Close() error {
	return s.cache.Close()
}

// newSession loads settings for path, applies flag overrides and opens the
// configured cache.
func (c *CLI) newSession(ctx context.Context, cmd *cobra.Command, path string, f *sourceFlags) (*session, error) {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(configRoot(path), f.configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if cmd.Flags().Changed("jobs") {
		cfg.Jobs = f.jobs
	}
	cfg.Exclude = append(cfg.Exclude, f.exclude...)
	if f.noCache {
		cfg.Cache = config.CacheNone
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Source != "" {
		logger.Debug("loaded settings", "file", cfg.Source)
	}
	ttl, _ := cfg.TTL()

	store, keyer := openCache(ctx, cfg, logger)
	return &session{
		runner: pipeline.NewRunner(store, keyer, logger),
		cache:  store,
		opts: pipeline.Options{
			Path:             path,
			Jobs:             cfg.Jobs,
			Exclude:          cfg.Exclude,
			RespectGitignore: cfg.RespectGitignore,
			CacheTTL:         ttl,
			KeepGoing:        f.keepGoing,
		},
	}, nil
}

// configRoot is the directory searched for settings files.
func configRoot(path string) string {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return filepath.Dir(path)
	}
	return path
}

// =============================================================================
// Cache Factory
// =============================================================================

// openCache opens the configured backend. An unreachable Redis server falls
// back to the file cache, and a missing cache directory disables caching.
func openCache(ctx context.Context, cfg config.Config, logger *log.Logger) (cache.Cache, cache.Keyer) {
	switch cfg.Cache {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		if cfg.RedisURL == "" {
			logger.Warn("cache = \"redis\" needs redis-url, using file cache", "env", config.EnvRedisURL)
			break
		}
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err == nil {
			return rc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":")
		}
		logger.Warn("redis cache unavailable, using file cache", "err", err)
	}
	return newFileCache(logger), nil
}

func newFileCache(logger *log.Logger) cache.Cache {
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		logger.Debug("file cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/importdeps/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
