package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/acme/invoicing/internal/application/event"
	"github.com/acme/invoicing/internal/application/form"
	"go.uber.org/zap"
)

// defaultListingTTL applies when no TTL is configured
const defaultListingTTL = 30 * time.Second

// listingEntry wraps a cached value with its expiration time
type listingEntry struct {
	value     any
	expiresAt time.Time
}

// ListingCache keeps rendered listing pages in memory, grouped by the
// dashboard path they belong to. Invalidating a path drops every page cached
// under it and bumps the path's generation, which turns away fills computed
// before the invalidation. Expired entries are dropped lazily on read.
type ListingCache struct {
	mu          sync.RWMutex
	entries     map[string]map[string]listingEntry
	generations map[string]uint64
	ttl         time.Duration
	logger      *zap.Logger
	now         func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

// ListingCacheOption is a functional option for configuring the cache
type ListingCacheOption func(*ListingCache)

// WithListingTTL sets how long a cached page stays fresh
func WithListingTTL(ttl time.Duration) ListingCacheOption {
	return func(c *ListingCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithListingLogger sets the logger for the cache
func WithListingLogger(logger *zap.Logger) ListingCacheOption {
	return func(c *ListingCache) {
		c.logger = logger
	}
}

// NewListingCache creates an empty listing cache
func NewListingCache(opts ...ListingCacheOption) *ListingCache {
	c := &ListingCache{
		entries:     make(map[string]map[string]listingEntry),
		generations: make(map[string]uint64),
		ttl:         defaultListingTTL,
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value for key under path. On a miss it returns the
// generation to hand back to Set.
func (c *ListingCache) Get(path, key string) (any, uint64, bool) {
	c.mu.RLock()
	entry, ok := c.entries[path][key]
	gen := c.generations[path]
	c.mu.RUnlock()

	if !ok {
		c.misses.Add(1)
		return nil, gen, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		if current, still := c.entries[path][key]; still && current.expiresAt.Equal(entry.expiresAt) {
			delete(c.entries[path], key)
		}
		c.mu.Unlock()
		c.misses.Add(1)
		return nil, gen, false
	}
	c.hits.Add(1)
	return entry.value, gen, true
}

// Set stores value for key under path unless path was invalidated since
// generation was handed out.
func (c *ListingCache) Set(path, key string, generation uint64, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generations[path] != generation {
		c.logger.Debug("Stale listing fill discarded", zap.String("path", path), zap.String("key", key))
		return
	}

	pages, ok := c.entries[path]
	if !ok {
		pages = make(map[string]listingEntry)
		c.entries[path] = pages
	}
	pages[key] = listingEntry{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Invalidate drops every page cached under path
func (c *ListingCache) Invalidate(_ context.Context, path string) error {
	c.mu.Lock()
	dropped := len(c.entries[path])
	delete(c.entries, path)
	c.generations[path]++
	c.mu.Unlock()

	c.logger.Debug("Listing cache invalidated",
		zap.String("path", path),
		zap.Int("dropped", dropped))
	return nil
}

// Sweep removes expired pages that were never read again
func (c *ListingCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for path, pages := range c.entries {
		for key, entry := range pages {
			if now.After(entry.expiresAt) {
				delete(pages, key)
				removed++
			}
		}
		if len(pages) == 0 {
			delete(c.entries, path)
		}
	}
	return removed
}

// Stats returns hit and miss counters
func (c *ListingCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

var (
	_ form.ListingCache     = (*ListingCache)(nil)
	_ event.PathInvalidator = (*ListingCache)(nil)
)
