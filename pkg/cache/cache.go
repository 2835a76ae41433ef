// Package cache stores rendered documents and artifacts between runs.
//
// # Backends
//
// Three [Cache] implementations are provided:
//
//   - [NullCache] never stores anything (--no-cache)
//   - [FileCache] keeps entries under a directory, the CLI default
//   - [RedisCache] shares entries between processes through Redis
//
// # Keys
//
// Keys are produced by a [Keyer]. The [DefaultKeyer] hashes every option
// that affects the output, so two runs share an entry only when they would
// produce identical bytes. Wrap it in a [ScopedKeyer] to namespace keys in
// a shared backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the cached bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default time-to-live values.
const (
	TTLDocument = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
