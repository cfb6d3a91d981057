// Package cache holds the most recently rendered feed body per brand id.
package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Entry is one rendered feed with its refresh timestamp. Freshness is the
// caller's call: Lookup returns stale entries too, so the caller can keep
// using the timestamp for conditional-freshness headers.
type Entry struct {
	Body     []byte
	CachedAt time.Time
}

// Cache maps brand ids to their latest rendered feed. Entries are only ever
// overwritten, never evicted; the set of brands is small and fixed in
// practice.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	group   singleflight.Group
}

func New() *Cache {
	return &Cache{entries: make(map[string]Entry)}
}

// Lookup returns the stored entry for a brand id, stale or not.
func (c *Cache) Lookup(brandID string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[brandID]
	return e, ok
}

// Store replaces the entry for a brand id.
func (c *Cache) Store(brandID string, body []byte, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[brandID] = Entry{Body: body, CachedAt: at}
}

// GetOrBuild returns a fresh entry for a brand id, rebuilding when the
// entry is absent or older than lifetime. Concurrent callers for the same
// brand id share a single build; distinct brand ids never contend.
func (c *Cache) GetOrBuild(brandID string, lifetime time.Duration, build func() ([]byte, error)) (Entry, error) {
	if e, ok := c.Lookup(brandID); ok && time.Since(e.CachedAt) < lifetime {
		return e, nil
	}

	v, err, _ := c.group.Do(brandID, func() (interface{}, error) {
		// Re-check: a caller that was queued behind the flight may arrive
		// here after the entry was already refreshed.
		if e, ok := c.Lookup(brandID); ok && time.Since(e.CachedAt) < lifetime {
			return e, nil
		}
		body, err := build()
		if err != nil {
			return Entry{}, err
		}
		e := Entry{Body: body, CachedAt: time.Now()}
		c.Store(brandID, e.Body, e.CachedAt)
		return e, nil
	})
	if err != nil {
		return Entry{}, err
	}
	return v.(Entry), nil
}
