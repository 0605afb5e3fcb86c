// Package cache stores opaque byte payloads under string keys with an
// optional time-to-live.
//
// Three backends are provided: [FileCache] for local CLI runs,
// [RedisCache] for shared deployments of the server, and [NullCache] when
// caching is disabled. Keys are built with [AdvisoryKey] and friends so
// that every caller namespaces the same way.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
//
// Get reports a miss as (nil, false, nil); an error means the backend
// itself failed. A ttl of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// DefaultTTL is how long advisory lookups stay cached unless configured.
const DefaultTTL = 6 * time.Hour

// AdvisoryKey is the cache key for the advisory listing of one package name.
func AdvisoryKey(name string) string {
	return "advisories:" + Hash([]byte(name))
}

// HTTPKey is the cache key for a raw HTTP response body.
func HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// prefixed namespaces every key of an underlying cache.
type prefixed struct {
	Cache
	prefix string
}

// WithPrefix returns a view of c whose keys are all prefixed. Closing the
// view closes c.
func WithPrefix(c Cache, prefix string) Cache {
	if prefix == "" {
		return c
	}
	if !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return &prefixed{Cache: c, prefix: prefix}
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return p.Cache.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return p.Cache.Set(ctx, p.prefix+key, data, ttl)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.Cache.Delete(ctx, p.prefix+key)
}

// NullCache misses on every Get and discards every Set.
type NullCache struct{}

func NewNullCache() *NullCache { return &NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = (*NullCache)(nil)
