package cache

import (
	"sync"
	"time"
)

// Entry represents a cached value with expiration
type Entry[V any] struct {
	Value     V
	ExpiresAt time.Time
}

// Cache is an in-memory cache with a fixed TTL per entry.
// Expired entries stay in memory until Sweep runs.
type Cache[V any] struct {
	mu    sync.RWMutex
	items map[string]Entry[V]
	ttl   time.Duration
	now   func() time.Time
}

// New creates a cache whose entries live for ttl
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{items: map[string]Entry[V]{}, ttl: ttl, now: time.Now}
}

// Set stores a value under key
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = Entry[V]{Value: value, ExpiresAt: c.now().Add(c.ttl)}
}

// Get retrieves a value if it hasn't expired
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.items[key]
	if !ok || !c.now().Before(entry.ExpiresAt) {
		var zero V
		return zero, false
	}
	return entry.Value, true
}

// Sweep drops expired entries and returns how many were removed
func (c *Cache[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for key, entry := range c.items {
		if !now.Before(entry.ExpiresAt) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
