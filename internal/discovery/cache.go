package discovery

import (
	"sync"
	"time"

	"github.com/ThangNguyenTan/streamflix/internal/discovery/tmdb"
)

// Cache provides in-memory caching with TTL for discovery results.
type Cache struct {
	mu       sync.RWMutex
	items    map[string]cacheItem
	ttl      time.Duration
	maxItems int
}

type cacheItem struct {
	value     interface{}
	expiresAt time.Time
}

// CacheConfig holds cache configuration.
type CacheConfig struct {
	TTL      time.Duration
	MaxItems int
}

// DefaultCacheConfig returns default cache configuration. The default TTL
// applies to search result sets; the genre catalog and trending listing are
// stored with their own longer TTLs.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:      time.Minute,
		MaxItems: 500,
	}
}

// NewCache creates a new cache with the given configuration.
func NewCache(cfg CacheConfig) *Cache {
	if cfg.TTL == 0 {
		cfg.TTL = time.Minute
	}
	if cfg.MaxItems == 0 {
		cfg.MaxItems = 500
	}

	c := &Cache{
		items:    make(map[string]cacheItem),
		ttl:      cfg.TTL,
		maxItems: cfg.MaxItems,
	}

	// Start background cleanup goroutine
	go c.cleanup()

	return c
}

// Get retrieves an item from the cache.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[key]
	if !ok {
		return nil, false
	}

	if time.Now().After(item.expiresAt) {
		return nil, false
	}

	return item.value, true
}

// Set stores an item in the cache with the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores an item with a custom TTL.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) >= c.maxItems {
		c.evictExpired()
	}

	c.items[key] = cacheItem{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Delete removes an item from the cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear removes all items from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]cacheItem)
}

// Len returns the number of items in the cache.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// evictExpired removes expired items (must be called with lock held).
func (c *Cache) evictExpired() {
	now := time.Now()
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
		}
	}
}

// cleanup periodically removes expired items.
func (c *Cache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		c.evictExpired()
		c.mu.Unlock()
	}
}

// GetSearchResults retrieves a cached canonical result set.
func (c *Cache) GetSearchResults(key string) ([]SearchResult, bool) {
	val, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	results, ok := val.([]SearchResult)
	return results, ok
}

// GetGenres retrieves the cached aggregated genre catalog.
func (c *Cache) GetGenres(key string) ([]GenreEntry, bool) {
	val, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	genres, ok := val.([]GenreEntry)
	return genres, ok
}

// GetRecords retrieves cached raw upstream records.
func (c *Cache) GetRecords(key string) ([]tmdb.Record, bool) {
	val, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	records, ok := val.([]tmdb.Record)
	return records, ok
}
