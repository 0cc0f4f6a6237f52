package store

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-formvars/pkg/catalog"
)

// DefaultFormTTL is how long a cached form record stays fresh.
const DefaultFormTTL = 5 * time.Minute

// CacheOption customises a CachedFormStore.
type CacheOption func(*CachedFormStore)

// WithTTL overrides the freshness window.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *CachedFormStore) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCacheClock injects the time source used for staleness checks.
func WithCacheClock(now func() time.Time) CacheOption {
	return func(c *CachedFormStore) {
		if now != nil {
			c.now = now
		}
	}
}

type cacheEntry struct {
	form     catalog.Form
	cachedAt time.Time
}

// CachedFormStore wraps a FormStore with a read-through cache using a fixed
// TTL checked on read. The cache is owned by whoever constructs it — there is
// no process-global state — so tests get a fresh cache per instance and the
// engine's behaviour never depends on process lifetime. Lookup errors are not
// cached; a miss retries the inner store on the next read.
type CachedFormStore struct {
	inner FormStore
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCachedFormStore wraps inner with a TTL cache.
func NewCachedFormStore(inner FormStore, options ...CacheOption) *CachedFormStore {
	c := &CachedFormStore{
		inner:   inner,
		ttl:     DefaultFormTTL,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// GetForm implements FormStore, serving fresh entries from memory.
func (c *CachedFormStore) GetForm(ctx context.Context, id string) (catalog.Form, error) {
	now := c.now()

	c.mu.Lock()
	entry, ok := c.entries[id]
	if ok && now.Sub(entry.cachedAt) < c.ttl {
		c.mu.Unlock()
		return entry.form, nil
	}
	if ok {
		delete(c.entries, id)
	}
	c.mu.Unlock()

	form, err := c.inner.GetForm(ctx, id)
	if err != nil {
		return catalog.Form{}, err
	}

	c.mu.Lock()
	c.entries[id] = cacheEntry{form: form, cachedAt: now}
	c.mu.Unlock()
	return form, nil
}

// Invalidate drops a single cached form, forcing the next read through.
func (c *CachedFormStore) Invalidate(id string) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}

// Purge drops every cached entry.
func (c *CachedFormStore) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}
