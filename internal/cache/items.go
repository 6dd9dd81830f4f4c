// Package cache holds the client's copy of the last fetched item list.
package cache

import (
	"sync"

	"github.com/idilsaglam/dreams/internal/model"
)

// Items is replaced wholesale on every reload; it is never patched in place.
type Items struct {
	mu    sync.RWMutex
	items []model.Item
}

func New() *Items { return &Items{} }

// Replace swaps in a fresh list.
func (c *Items) Replace(items []model.Item) {
	cp := make([]model.Item, len(items))
	copy(cp, items)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = cp
}

// Snapshot returns a copy safe to hand to renderers.
func (c *Items) Snapshot() []model.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Items) Find(id int64) (model.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if it.ID == id {
			return it, true
		}
	}
	return model.Item{}, false
}
