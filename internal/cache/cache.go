package cache

import (
	"context"
	"time"
)

// Cache is the key/value cache used for derived, read-mostly lookups
type Cache interface {
	// Get returns the cached value and whether it was present
	Get(ctx context.Context, key string) (interface{}, bool)
	// Set stores a value; a zero ttl uses the cache default
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
	// Delete removes a single key
	Delete(ctx context.Context, key string)
	// DeleteByPrefix removes every key starting with prefix
	DeleteByPrefix(ctx context.Context, prefix string)
	// Flush empties the cache
	Flush(ctx context.Context)
}

// NoopCache never stores anything, used when caching is disabled
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (interface{}, bool)           { return nil, false }
func (NoopCache) Set(context.Context, string, interface{}, time.Duration) {}
func (NoopCache) Delete(context.Context, string)                           {}
func (NoopCache) DeleteByPrefix(context.Context, string)                   {}
func (NoopCache) Flush(context.Context)                                    {}
