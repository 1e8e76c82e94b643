// Package cache provides the TTL and size bounded LRU cache backing update
// check results.
package cache

import (
	"container/list"
	"sync"
	"time"
)

const (
	// DefaultTTL bounds how long a cached result stays fresh.
	DefaultTTL = 5 * time.Minute
	// DefaultMaxEntries bounds how many results are retained.
	DefaultMaxEntries = 10
)

// Cache is a TTL and size bounded key/value cache with LRU eviction.
//
// Staleness is checked lazily during access; the cache never runs background
// timers. The access pattern it serves is bursty and low-frequency, so the
// O(n) prune on each access stays cheap at the default capacity.
// Safe for concurrent use.
type Cache[K comparable, V any] struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	items      map[K]*list.Element
	order      *list.List // front = most recently used

	now func() time.Time
}

type entry[K comparable, V any] struct {
	key      K
	value    V
	storedAt time.Time
}

// New returns an empty cache. Non-positive ttl or maxEntries fall back to
// the defaults.
func New[K comparable, V any](ttl time.Duration, maxEntries int) *Cache[K, V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache[K, V]{
		ttl:        ttl,
		maxEntries: maxEntries,
		items:      make(map[K]*list.Element),
		order:      list.New(),
		now:        time.Now,
	}
}

// Get returns the value stored under key. Expired entries are pruned before
// the lookup; a hit refreshes recency but not the stored-at time.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked()

	var zero V
	el, ok := c.items[key]
	if !ok {
		return zero, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry[K, V]).value, true
}

// Set stores value under key at the most recent position, evicting the
// least recently used entry when the cache runs over capacity. Re-setting
// an existing key refreshes its value, stored-at time, and recency.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		ent := el.Value.(*entry[K, V])
		ent.value = value
		ent.storedAt = c.now()
		c.order.MoveToFront(el)
		return
	}

	c.items[key] = c.order.PushFront(&entry[K, V]{key: key, value: value, storedAt: c.now()})

	if c.order.Len() > c.maxEntries {
		c.removeElement(c.order.Back())
	}
}

// Delete removes key if present.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
}

// Prune drops every entry older than the TTL.
func (c *Cache[K, V]) Prune() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pruneLocked()
}

// Clear drops every entry.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*list.Element)
	c.order.Init()
}

// Len returns the number of live entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked()
	return c.order.Len()
}

// pruneLocked removes expired entries. Recency order does not track age, so
// the whole list is walked. Callers must hold the lock.
func (c *Cache[K, V]) pruneLocked() {
	now := c.now()
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if now.Sub(el.Value.(*entry[K, V]).storedAt) > c.ttl {
			c.removeElement(el)
		}
		el = prev
	}
}

func (c *Cache[K, V]) removeElement(el *list.Element) {
	delete(c.items, el.Value.(*entry[K, V]).key)
	c.order.Remove(el)
}
