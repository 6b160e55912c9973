// Package cache stores translated outputs keyed by a hash of their inputs.
//
// Translation is deterministic, so the JSON produced for a given input file,
// input format, and option set never changes. The CLI and the HTTP API keep
// those bytes in a [Cache] and skip decoding and translation on a hit.
//
// Three backends are provided:
//
//   - [FileCache]: one file per entry under a local directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for `topo2graph serve` fleets
//   - [NullCache]: stores nothing (--no-cache)
//
// Keys come from a [Keyer]:
//
//	key := cache.NewDefaultKeyer().OutputKey(cache.Hash(input), cache.OutputKeyOpts{Format: "term"})
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// TTLOutput is how long translated outputs are kept.
const TTLOutput = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Backend names a cache implementation.
type Backend string

const (
	BackendFile  Backend = "file"
	BackendRedis Backend = "redis"
	BackendNone  Backend = "none"
)

// Backends returns the valid backend names.
func Backends() []string {
	return []string{string(BackendFile), string(BackendRedis), string(BackendNone)}
}

// Options selects and configures a backend for [Open].
type Options struct {
	Backend   Backend
	Dir       string // file backend
	RedisAddr string // redis backend
	RedisDB   int    // redis backend
	Prefix    string // redis key prefix
}

// Open returns the cache described by opts.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch Backend(strings.ToLower(string(opts.Backend))) {
	case BackendFile, "":
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, RedisOptions{Addr: opts.RedisAddr, DB: opts.RedisDB, Prefix: opts.Prefix})
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return NewNullCache(), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q (available: %s)", opts.Backend, strings.Join(Backends(), ", "))
}
