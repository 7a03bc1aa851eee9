package pyimport

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/importdeps/pkg/cache"
	"github.com/matzehuels/importdeps/pkg/module"
	"github.com/matzehuels/importdeps/pkg/observability"
)

const keyTypeImports = "imports"

// CachedExtractor wraps an Extractor with a content-addressed cache.
//
// Entries are keyed by the SHA-256 of the file content and [Version], so a
// file is parsed again only when it changes or the extraction rules do.
// Cache failures never fail an extraction. They are logged at debug level
// and fall through to parsing.
type CachedExtractor struct {
	x      *Extractor
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// NewCached creates a CachedExtractor. A nil cache disables caching and a
// nil keyer uses [cache.DefaultKeyer].
func NewCached(x *Extractor, c cache.Cache, k cache.Keyer) *CachedExtractor {
	if x == nil {
		x = New()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if k == nil {
		k = cache.NewDefaultKeyer()
	}
	return &CachedExtractor{
		x:      x,
		cache:  c,
		keyer:  k,
		ttl:    cache.TTLImports,
		logger: log.New(io.Discard),
	}
}

// WithTTL sets how long entries live. Non-positive values keep the default.
func (c *CachedExtractor) WithTTL(ttl time.Duration) *CachedExtractor {
	if ttl > 0 {
		c.ttl = ttl
	}
	return c
}

// WithLogger sets the logger for cache failures. A nil logger is ignored.
func (c *CachedExtractor) WithLogger(logger *log.Logger) *CachedExtractor {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Extract returns the raw imports of path, from cache when possible.
func (c *CachedExtractor) Extract(ctx context.Context, path string) ([]module.RawImport, error) {
	content, err := c.x.read(path)
	if err != nil {
		return nil, err
	}

	key := c.keyer.ImportsKey(cache.Hash(content), Version)
	data, hit, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		c.logger.Debug("imports cache read failed", "path", path, "err", err)
	case hit:
		var imports []module.RawImport
		decodeErr := json.Unmarshal(data, &imports)
		if decodeErr == nil {
			observability.Cache().OnCacheHit(ctx, keyTypeImports)
			return imports, nil
		}
		c.logger.Debug("discarding corrupt imports cache entry", "path", path, "key", key, "err", decodeErr)
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeImports)

	imports, err := c.x.Parse(ctx, content, path)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(imports)
	if err != nil {
		c.logger.Debug("imports cache encode failed", "path", path, "err", err)
		return imports, nil
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Debug("imports cache write failed", "path", path, "err", err)
		return imports, nil
	}
	observability.Cache().OnCacheSet(ctx, keyTypeImports, len(data))
	return imports, nil
}

var (
	_ module.Extractor = (*Extractor)(nil)
	_ module.Extractor = (*CachedExtractor)(nil)
)
