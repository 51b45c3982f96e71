// Package cache provides pluggable byte caches for pipeline results.
//
// Two backends are provided: [FileCache] for CLI usage, where cache entries
// live under the user's cache directory, and [RedisCache] for server
// deployments where several instances share one cache. [NullCache] disables
// caching entirely.
//
// Keys are produced by a [Keyer] so that every pipeline stage (topology
// parse, layout, rendered artifact) derives its key from the content hash of
// the stage before it. [ScopedKeyer] prefixes keys for namespace isolation.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache with per-entry TTLs.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss;
// errors are reserved for backend failures, never for absent keys.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
