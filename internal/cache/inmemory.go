package cache

import (
	"context"
	"strings"
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/config"
	gocache "github.com/patrickmn/go-cache"
)

// InMemoryCache implements Cache on top of patrickmn/go-cache
type InMemoryCache struct {
	cache *gocache.Cache
}

// NewInMemoryCache creates an in-memory cache with the default expiry
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		cache: gocache.New(ExpiryDefaultInMemory, CleanupIntervalInMemory),
	}
}

// NewCache picks the cache implementation from configuration
func NewCache(cfg *config.Configuration) Cache {
	if !cfg.Cache.Enabled {
		return NoopCache{}
	}
	return NewInMemoryCache()
}

func (c *InMemoryCache) Get(_ context.Context, key string) (interface{}, bool) {
	return c.cache.Get(key)
}

func (c *InMemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(key, value, ttl)
}

func (c *InMemoryCache) Delete(_ context.Context, key string) {
	c.cache.Delete(key)
}

func (c *InMemoryCache) DeleteByPrefix(_ context.Context, prefix string) {
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}
}

func (c *InMemoryCache) Flush(_ context.Context) {
	c.cache.Flush()
}
