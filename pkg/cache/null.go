package cache

import (
	"context"
	"time"
)

// NullCache stores nothing, so every import extraction and render runs
// from scratch. The CLI selects it for --no-cache, for cache = "none"
// and when the cache directory cannot be created.
type NullCache struct{}

// NewNullCache returns a NullCache as a Cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get reports a miss for every key.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards data.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete does nothing.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close does nothing.
func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
