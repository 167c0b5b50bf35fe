// Package cache provides byte-level caching for computed layouts and
// rendered artifacts.
//
// A layout depends only on the input graph, the viewport, the physics
// parameters and the number of frames, so the same request always yields
// the same positions. Caching lets the CLI and the server skip the
// simulation for graphs they have already laid out.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for several server instances
//   - [NullCache]: never stores anything (--no-cache, tests)
//
// # Keys
//
// A [Keyer] derives keys from content hashes and options. [DefaultKeyer]
// hashes all options into the key; [ScopedKeyer] adds a namespace prefix.
//
//	k := cache.NewDefaultKeyer()
//	key := k.LayoutKey(cache.Hash(graphJSON), cache.LayoutKeyOpts{Width: 800, Height: 600, Steps: 300})
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is reported
	// with hit == false and a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default entry lifetimes.
const (
	// TTLLayout is how long computed layouts stay cached.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is how long rendered artifacts stay cached.
	TTLArtifact = 7 * 24 * time.Hour
)
