package dao

import (
	"strings"
	"sync"
	"time"
)

// DefaultCacheTTL is the default time-to-live for cached source rows.
const DefaultCacheTTL = 5 * time.Second

// cacheEntry holds cached rows with their timestamps.
type cacheEntry struct {
	rows      [][]byte
	modTime   time.Time
	timestamp time.Time
}

// RowCache provides TTL-based caching of decoded source rows. An entry is
// also dropped once the file it came from changes on disk.
type RowCache struct {
	data map[string]cacheEntry
	ttl  time.Duration
	mx   sync.RWMutex
}

// NewRowCache creates a new RowCache with the specified TTL.
func NewRowCache(ttl time.Duration) *RowCache {
	return &RowCache{
		data: make(map[string]cacheEntry),
		ttl:  ttl,
	}
}

// Get retrieves cached rows for the given key.
// Returns nil if the key is not found, has expired or is older than modTime.
func (c *RowCache) Get(key string, modTime time.Time) [][]byte {
	c.mx.RLock()
	defer c.mx.RUnlock()

	entry, exists := c.data[key]
	if !exists {
		return nil
	}
	if time.Since(entry.timestamp) > c.ttl || !entry.modTime.Equal(modTime) {
		return nil
	}

	return entry.rows
}

// Set stores rows in the cache with the given key.
func (c *RowCache) Set(key string, modTime time.Time, rows [][]byte) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.data[key] = cacheEntry{
		rows:      rows,
		modTime:   modTime,
		timestamp: time.Now(),
	}
}

// Invalidate removes a specific key from the cache.
func (c *RowCache) Invalidate(key string) {
	c.mx.Lock()
	defer c.mx.Unlock()

	delete(c.data, key)
}

// InvalidatePrefix removes all cache entries whose keys start with the given prefix.
func (c *RowCache) InvalidatePrefix(prefix string) {
	c.mx.Lock()
	defer c.mx.Unlock()

	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
}

// Clear removes all entries from the cache.
func (c *RowCache) Clear() {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.data = make(map[string]cacheEntry)
}
