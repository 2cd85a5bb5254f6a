// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package execute

import (
	"sync"

	"github.com/jkanem/pennylane/num"
)

// Cache is a bounded result store keyed by tape fingerprint. Gradient
// rules re-execute the unshifted tape and shifted tapes repeatedly
// across forward and backward passes; the cache collapses those
// duplicate device calls.
type Cache struct {
	mu      sync.Mutex
	max     int
	entries map[string]*num.Tensor
	order   []string
}

// NewCache creates a cache holding at most max entries. Insertion
// beyond the bound evicts the oldest entry.
func NewCache(max int) *Cache {
	return &Cache{
		max:     max,
		entries: make(map[string]*num.Tensor),
	}
}

// Get returns the cached result for key, if present.
func (c *Cache) Get(key string) (*num.Tensor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.entries[key]
	return t, ok
}

// Put stores a result, evicting the oldest entry when full.
func (c *Cache) Put(key string, t *num.Tensor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		c.entries[key] = t
		return
	}
	for c.max > 0 && len(c.entries) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = t
	c.order = append(c.order, key)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
