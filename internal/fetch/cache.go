// Package fetch provides the request cache, sliding-window rate limiter,
// and retrying HTTP fetcher used by the market data client.
package fetch

import (
	"sync"
	"time"
)

// cacheEntry is a stored value with its expiry bookkeeping.
type cacheEntry struct {
	value    []byte
	storedAt time.Time
	ttl      time.Duration
}

// Cache is a TTL cache keyed by full request URL. Eviction is lazy: an
// expired entry is treated as absent on read and overwritten on write.
// There is no background sweep.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time // injectable clock for testing
}

// CacheOption configures the cache.
type CacheOption func(*Cache)

// WithCacheClock sets the clock used for expiry checks.
func WithCacheClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache creates an empty cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value for key, or ok=false when absent or expired.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= entry.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.value, true
}

// Set stores value under key for ttl.
func (c *Cache) Set(key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		value:    value,
		storedAt: c.now(),
		ttl:      ttl,
	}
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
