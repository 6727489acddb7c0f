// Package cache stores serialized results keyed by tree and run options.
//
// Backends implement [Cache]: [FileCache] for the command line,
// [RedisCache] for the HTTP server when several instances share results,
// and [NullCache] when caching is disabled. Keys are derived by a [Keyer]
// from the SHA-256 of the tree and the options that influence the result.
//
// Values are opaque byte slices; callers serialize with encoding/json.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// TTLReport keeps benchmark reports for a week unless configured
// otherwise.
const TTLReport = 7 * 24 * time.Hour
