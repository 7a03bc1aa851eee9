// Package config loads importdeps settings from TOML.
//
// Settings are read from the first of these that exists:
//
//  1. an explicit file passed with --config
//  2. .importdeps.toml in the analyzed directory
//  3. the [tool.importdeps] table of pyproject.toml in the analyzed directory
//
// Missing files are not an error; [Defaults] applies. Command-line flags
// override file settings, and IMPORTDEPS_REDIS_URL overrides redis-url.
//
//	# .importdeps.toml
//	exclude = ["tests/", "migrations/"]
//	jobs = 8
//	cache = "redis"
//	redis-url = "redis://localhost:6379/0"
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/importdeps/pkg/errors"
)

// File names searched in the analyzed directory.
const (
	FileName      = ".importdeps.toml"
	PyprojectName = "pyproject.toml"
)

// EnvRedisURL overrides the redis-url setting when set.
const EnvRedisURL = "IMPORTDEPS_REDIS_URL"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config holds user settings.
type Config struct {
	Exclude          []string `toml:"exclude"`
	RespectGitignore bool     `toml:"respect-gitignore"`
	Jobs             int      `toml:"jobs"`
	Cache            string   `toml:"cache"`
	RedisURL         string   `toml:"redis-url"`
	CacheTTL         string   `toml:"cache-ttl"`

	// Source is the file the settings were read from, empty for defaults.
	Source string `toml:"-"`
}

// Defaults returns the settings used when no file is found.
func Defaults() Config {
	return Config{
		RespectGitignore: true,
		Jobs:             runtime.NumCPU(),
		Cache:            CacheFile,
		CacheTTL:         "168h",
	}
}

// Load reads settings for the directory root. If explicit is non-empty it is
// read instead of searching root, and it must exist.
func Load(root, explicit string) (Config, error) {
	cfg := Defaults()

	if explicit != "" {
		if err := decodeFile(explicit, &cfg); err != nil {
			return Config{}, err
		}
		cfg.Source = explicit
		return cfg, cfg.Validate()
	}

	path := filepath.Join(root, FileName)
	if ok, err := exists(path); err != nil {
		return Config{}, err
	} else if ok {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
		cfg.Source = path
		return cfg, cfg.Validate()
	}

	path = filepath.Join(root, PyprojectName)
	if ok, err := exists(path); err != nil {
		return Config{}, err
	} else if ok {
		found, err := decodePyproject(path, &cfg)
		if err != nil {
			return Config{}, err
		}
		if found {
			cfg.Source = path
		}
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv() {
	if url := os.Getenv(EnvRedisURL); url != "" {
		c.RedisURL = url
	}
}

// Validate checks that settings are usable.
func (c Config) Validate() error {
	if c.Jobs < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "jobs must be at least 1, got %d", c.Jobs)
	}
	switch c.Cache {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.RedisURL != "" {
			if err := errors.ValidateRedisURL(c.RedisURL); err != nil {
				return err
			}
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", c.Cache)
	}
	if _, err := c.TTL(); err != nil {
		return err
	}
	return nil
}

// TTL returns the parsed cache-ttl.
func (c Config) TTL() (time.Duration, error) {
	if c.CacheTTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid cache-ttl %q", c.CacheTTL)
	}
	return d, nil
}

func decodeFile(path string, cfg *Config) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return nil
}

// decodePyproject reads [tool.importdeps] and reports whether it was present.
func decodePyproject(path string, cfg *Config) (bool, error) {
	var doc struct {
		Tool struct {
			Importdeps toml.Primitive `toml:"importdeps"`
		} `toml:"tool"`
	}
	md, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if !md.IsDefined("tool", "importdeps") {
		return false, nil
	}
	if err := md.PrimitiveDecode(doc.Tool.Importdeps, cfg); err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s [tool.importdeps]", path)
	}
	return true, nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
