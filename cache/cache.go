// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"sync"
	"time"
)

// TTL is a single-value cache with a fixed time-to-live and an explicit
// invalidation hook. The owning component constructs and injects it, so
// tests can use a short TTL and staleness is bounded by construction.
//
// If the service runs with several instances each holds its own copy,
// so reads can lag writes on other instances by up to the TTL.
type TTL[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	value   T
	ok      bool
	expires time.Time
}

func New[T any](ttl time.Duration) *TTL[T] {
	return &TTL[T]{ttl: ttl}
}

// Get returns the cached value if it is still fresh.
func (c *TTL[T]) Get() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ok || time.Now().After(c.expires) {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Set stores a value and restarts its TTL.
func (c *TTL[T]) Set(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = v
	c.ok = true
	c.expires = time.Now().Add(c.ttl)
}

// Invalidate drops the cached value immediately.
func (c *TTL[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ok = false
}
