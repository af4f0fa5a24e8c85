package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// TTLs for upstream payloads and computed scores.
const (
	TTLSocialSentiment = 2 * time.Minute
	TTLSocialTrending  = time.Minute
	TTLNewsSentiment   = 5 * time.Minute
	TTLQuote           = time.Minute
	TTLHypeScore       = 2 * time.Minute
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is an in-memory key/value store with per-entry expiry.
// Expired entries are dropped lazily on read; StartJanitor adds an optional sweep.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	now     func() time.Time
}

// New creates an empty cache.
func New[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[string]entry[V]), now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (c *Cache[V]) WithClock(now func() time.Time) *Cache[V] {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
	return c
}

// Get returns the value for key if present and not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key for ttl, replacing any existing entry.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
}

// Invalidate removes every key starting with prefix. An empty prefix clears the cache.
func (c *Cache[V]) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prefix == "" {
		c.entries = make(map[string]entry[V])
		return
	}
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

// Len reports the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Sweep removes all expired entries and returns how many were dropped.
func (c *Cache[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// StartJanitor sweeps expired entries every interval until ctx is cancelled.
func (c *Cache[V]) StartJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Sweep()
			}
		}
	}()
}
