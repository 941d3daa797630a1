package data

import (
	"os"
	"sync"
	"time"

	"ratescope/internal/model"
)

// cacheEntry is one cached tariff page.
type cacheEntry struct {
	Tariff    *model.Tariff
	ExpiresAt time.Time
}

// TariffCache provides in-memory caching for OpenEI tariff pages.
//
// This cache is for local development only; it is disabled entirely when
// API_ENV=production and must be opted into via ENABLE_OPENEI_CACHE=true.
type TariffCache struct {
	mu    sync.RWMutex
	store map[string]*cacheEntry
	ttl   time.Duration
}

var globalCache *TariffCache
var cacheOnce sync.Once

// GetCache returns the global cache instance if caching is enabled,
// nil otherwise.
func GetCache() *TariffCache {
	if os.Getenv("ENABLE_OPENEI_CACHE") != "true" {
		return nil
	}
	if os.Getenv("API_ENV") == "production" {
		return nil
	}

	cacheOnce.Do(func() {
		ttl := 1 * time.Hour
		if ttlStr := os.Getenv("OPENEI_CACHE_TTL"); ttlStr != "" {
			if parsed, err := time.ParseDuration(ttlStr); err == nil {
				ttl = parsed
			}
		}
		globalCache = &TariffCache{
			store: make(map[string]*cacheEntry),
			ttl:   ttl,
		}
		go globalCache.cleanup()
	})
	return globalCache
}

// Get retrieves a cached tariff if present and not expired.
func (c *TariffCache) Get(pageID string) (*model.Tariff, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, exists := c.store[pageID]
	if !exists || time.Now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Tariff, true
}

// Set stores a tariff in the cache.
func (c *TariffCache) Set(pageID string, t *model.Tariff) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[pageID] = &cacheEntry{Tariff: t, ExpiresAt: time.Now().Add(c.ttl)}
}

// Clear removes all entries from the cache.
func (c *TariffCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]*cacheEntry)
}

func (c *TariffCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, entry := range c.store {
			if now.After(entry.ExpiresAt) {
				delete(c.store, key)
			}
		}
		c.mu.Unlock()
	}
}
