package cache

import (
	"context"
	"sync"
	"time"

	"github.com/glowetsu/backend/internal/domain/content"
)

type cachedPayload struct {
	payload   []byte
	expiresAt time.Time
}

// InMemoryContentCache caches payloads in process memory.
// Suitable for single-instance deployments and tests.
type InMemoryContentCache struct {
	mu      sync.RWMutex
	entries  map[content.Kind]cachedPayload
	versions map[content.Kind]uint64
	ttl      time.Duration
	now     func() time.Time
}

// NewInMemoryContentCache creates a cache whose entries live for ttl. A zero ttl never expires.
func NewInMemoryContentCache(ttl time.Duration) *InMemoryContentCache {
	return &InMemoryContentCache{
		entries:  make(map[content.Kind]cachedPayload),
		versions: make(map[content.Kind]uint64),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns a copy of the cached payload
func (c *InMemoryContentCache) Get(_ context.Context, kind content.Kind) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[kind]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, kind)
		c.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), e.payload...), true, nil
}

// Version returns the invalidation count of kind
func (c *InMemoryContentCache) Version(_ context.Context, kind content.Kind) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.versions[kind], nil
}

// Set stores a copy of payload unless kind was invalidated since version was read
func (c *InMemoryContentCache) Set(_ context.Context, kind content.Kind, version uint64, payload []byte) error {
	e := cachedPayload{payload: append([]byte(nil), payload...)}
	if c.ttl > 0 {
		e.expiresAt = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[kind] != version {
		return content.ErrStaleCacheVersion
	}
	c.entries[kind] = e
	return nil
}

// Invalidate drops the cached payload and advances the version
func (c *InMemoryContentCache) Invalidate(_ context.Context, kind content.Kind) error {
	c.mu.Lock()
	delete(c.entries, kind)
	c.versions[kind]++
	c.mu.Unlock()
	return nil
}

// Size returns the number of cached entries
func (c *InMemoryContentCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ content.Cache = (*InMemoryContentCache)(nil)
