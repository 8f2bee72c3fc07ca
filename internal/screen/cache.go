package screen

import (
	"sync"
	"time"

	"github.com/orderpilot/orderpilot/internal/model"
)

// cacheEntry is one memoized locate result for a platform's screen.
type cacheEntry struct {
	at    time.Time
	node  *model.UINode
	found bool
}

// recencyCache avoids re-analyzing a screen that has not materially
// changed within a short window. Entries expire on time; window-state
// changes invalidate them outright.
type recencyCache struct {
	now     func() time.Time
	entries map[model.Platform]cacheEntry
	window  time.Duration
	mu      sync.RWMutex
}

func newRecencyCache(window time.Duration) *recencyCache {
	return &recencyCache{
		entries: make(map[model.Platform]cacheEntry),
		window:  window,
		now:     time.Now,
	}
}

func (c *recencyCache) get(platform model.Platform) (cacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[platform]
	if !ok {
		return cacheEntry{}, false
	}
	if c.now().Sub(entry.at) > c.window {
		return cacheEntry{}, false
	}
	return entry, true
}

func (c *recencyCache) put(platform model.Platform, node *model.UINode, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[platform] = cacheEntry{at: c.now(), node: node, found: found}
}

func (c *recencyCache) invalidate(platform model.Platform) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, platform)
}
