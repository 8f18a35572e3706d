package notes

import (
	"sync"
	"time"
)

// DefaultCacheTTL bounds how long listings and file bodies are reused.
const DefaultCacheTTL = 10 * time.Minute

// responseCache is a TTL map for GitHub responses.
type responseCache struct {
	data map[string]cacheEntry
	ttl  time.Duration
	mu   sync.RWMutex
	now  func() time.Time
}

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

func newResponseCache(ttl time.Duration) *responseCache {
	return &responseCache{
		data: make(map[string]cacheEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (c *responseCache) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[key]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.value, true
}

func (c *responseCache) set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = cacheEntry{value: value, expiresAt: c.now().Add(c.ttl)}
}

func (c *responseCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]cacheEntry)
}
