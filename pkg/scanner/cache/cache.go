// Package cache memoizes reflection outcomes per (url, param, value).
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ResultCache stores probe outcomes for a fixed TTL. Expired entries are
// purged lazily on lookup or by ClearExpired; no background sweeper runs.
type ResultCache struct {
	store *gocache.Cache
}

// New creates a cache whose entries live for ttl
func New(ttl time.Duration) *ResultCache {
	return &ResultCache{store: gocache.New(ttl, 0)}
}

func key(url, param, value string) string {
	// NUL cannot appear in a URL or parameter name
	return url + "\x00" + param + "\x00" + value
}

// Get returns the cached outcome, if a live entry exists
func (c *ResultCache) Get(url, param, value string) (bool, bool) {
	k := key(url, param, value)
	v, ok := c.store.Get(k)
	if !ok {
		// Drop the stale entry, if any
		c.store.Delete(k)
		return false, false
	}
	return v.(bool), true
}

// Set records an outcome, overwriting any previous entry
func (c *ResultCache) Set(url, param, value string, reflected bool) {
	c.store.SetDefault(key(url, param, value), reflected)
}

// ClearExpired removes every expired entry
func (c *ResultCache) ClearExpired() {
	c.store.DeleteExpired()
}

// Len returns the number of stored entries, expired ones included
func (c *ResultCache) Len() int {
	return c.store.ItemCount()
}
