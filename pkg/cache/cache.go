// Package cache provides key/value caching for importdeps.
//
// The analysis pipeline caches the raw imports of every parsed file under a
// key derived from the file content, and the graph command caches rendered
// artifacts under a key derived from the DOT source. Three backends exist:
//
//   - [FileCache] stores entries under the user cache directory (CLI default)
//   - [RedisCache] shares entries between machines or CI jobs
//   - [NullCache] disables caching
//
// Keys are produced by a [Keyer] so that backends never need to know what
// they store.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	// TTLImports is how long extracted imports stay cached. Entries are keyed
	// by content hash, so staleness is only a storage concern.
	TTLImports = 7 * 24 * time.Hour

	// TTLArtifact is how long rendered SVG/PNG output stays cached.
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiration.
type Cache interface {
	// Get returns the value for key. hit is false on a miss or expiry.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
