// Package cache stores pipeline results keyed by a hash of their input.
//
// Three backends implement [Cache]:
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the HTTP service
//
// Keys are built by a [Keyer] from the SHA-256 of the input treebank and the
// options that influence the result, so a changed option never returns a
// stale entry.
package cache

import (
	"context"
	"time"
)

// TTLs for the different kinds of cached data.
const (
	// TTLStats is how long corpus statistics stay cached.
	TTLStats = 7 * 24 * time.Hour
	// TTLOutput is how long transformed treebanks stay cached.
	TTLOutput = 24 * time.Hour
	// TTLRender is how long rendered sentence graphs stay cached.
	TTLRender = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. A missing or
	// expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
