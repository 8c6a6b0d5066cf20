// Package pagecache holds rendered page fragments for a short time so that
// repeated identical requests skip the datastore.
package pagecache

import (
	"log/slog"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultTTL is how long a rendered index listing is served from memory.
const DefaultTTL = 20 * time.Second

// Cache is the process-wide response cache.
type Cache interface {
	// Get returns the cached value for key, or false if absent or expired.
	Get(key string) ([]byte, bool)
	// Set stores value under key until ttl elapses.
	Set(key string, value []byte, ttl time.Duration)
	// Clear drops every entry.
	Clear()
	// Stats reports hit/miss counters and the current entry count.
	Stats() Stats
}

// Stats is a snapshot of cache activity.
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

type entry struct {
	expiresAt time.Time
	value     []byte
}

// LRUCache is a bounded, concurrency-safe Cache with per-entry expiry.
// Concurrent misses on the same key may both recompute and store; the last
// write wins.
type LRUCache struct {
	entries *lru.Cache[string, entry]
	logger  *slog.Logger
	now     func() time.Time
	hits    atomic.Int64
	misses  atomic.Int64
}

// New creates a cache holding at most maxEntries values.
func New(maxEntries int, logger *slog.Logger) *LRUCache {
	if logger == nil {
		logger = slog.Default()
	}
	entries, err := lru.New[string, entry](maxEntries)
	if err != nil {
		// Only returned for a non-positive size.
		logger.Warn("invalid page cache size, using 1", "size", maxEntries, "error", err)
		entries, _ = lru.New[string, entry](1)
	}
	return &LRUCache{
		entries: entries,
		logger:  logger,
		now:     time.Now,
	}
}

// Get returns the value for key if it has not expired.
func (c *LRUCache) Get(key string) ([]byte, bool) {
	e, ok := c.entries.Get(key)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		c.entries.Remove(key)
		c.misses.Add(1)
		c.logger.Debug("page cache entry expired", "key", key)
		return nil, false
	}
	c.hits.Add(1)
	return e.value, true
}

// Set stores a copy of value under key for ttl.
func (c *LRUCache) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	c.entries.Add(key, entry{value: stored, expiresAt: c.now().Add(ttl)})
	c.logger.Debug("page cached", "key", key, "bytes", len(stored), "ttl", ttl)
}

// Clear removes every entry.
func (c *LRUCache) Clear() {
	n := c.entries.Len()
	c.entries.Purge()
	c.logger.Info("page cache cleared", "entries", n)
}

// Stats returns the current counters.
func (c *LRUCache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.entries.Len(),
	}
}

// Fetch returns the cached value for key, or renders, stores and returns a
// fresh one. Render errors are returned without caching anything.
func Fetch(c Cache, key string, ttl time.Duration, render func() ([]byte, error)) ([]byte, bool, error) {
	if value, ok := c.Get(key); ok {
		return value, true, nil
	}
	value, err := render()
	if err != nil {
		return nil, false, err
	}
	c.Set(key, value, ttl)
	return value, false, nil
}
