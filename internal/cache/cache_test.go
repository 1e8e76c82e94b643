package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(ttl time.Duration, maxEntries int) (*Cache[string, string], *time.Time) {
	c := New[string, string](ttl, maxEntries)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCacheHitAndMiss(t *testing.T) {
	c, _ := newTestCache(time.Minute, 10)

	c.Set("a", "1")

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCacheTTLBoundary(t *testing.T) {
	c, now := newTestCache(5*time.Minute, 10)
	t0 := *now

	c.Set("a", "1")

	*now = t0.Add(5*time.Minute - time.Millisecond)
	_, ok := c.Get("a")
	assert.True(t, ok, "entry should still be fresh just before the TTL")

	*now = t0.Add(5*time.Minute + time.Millisecond)
	_, ok = c.Get("a")
	assert.False(t, ok, "entry should be expired just after the TTL")
}

func TestCacheLRUEviction(t *testing.T) {
	c, _ := newTestCache(time.Hour, 10)

	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("k%d", i), "v")
	}
	require.Equal(t, 10, c.Len())

	// The 11th distinct key evicts exactly the least recently used one.
	c.Set("k10", "v")
	assert.Equal(t, 10, c.Len())

	_, ok := c.Get("k0")
	assert.False(t, ok, "k0 should have been evicted")
	for i := 1; i <= 10; i++ {
		_, ok := c.Get(fmt.Sprintf("k%d", i))
		assert.True(t, ok, "k%d should survive", i)
	}
}

func TestCacheGetRefreshesRecency(t *testing.T) {
	c, _ := newTestCache(time.Hour, 3)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3")

	// Touching a makes b the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("d", "4")

	_, ok = c.Get("b")
	assert.False(t, ok, "b should have been evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
}

func TestCacheSetRefreshesExisting(t *testing.T) {
	c, now := newTestCache(time.Minute, 10)
	t0 := *now

	c.Set("a", "old")

	*now = t0.Add(50 * time.Second)
	c.Set("a", "new")

	// The rewrite restarted the TTL clock.
	*now = t0.Add(100 * time.Second)
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "new", got)

	assert.Equal(t, 1, c.Len())
}

func TestCacheGetDoesNotRefreshTTL(t *testing.T) {
	c, now := newTestCache(time.Minute, 10)
	t0 := *now

	c.Set("a", "1")

	*now = t0.Add(59 * time.Second)
	_, ok := c.Get("a")
	require.True(t, ok)

	// The hit above must not have extended the entry's life.
	*now = t0.Add(61 * time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestCachePrune(t *testing.T) {
	c, now := newTestCache(time.Minute, 10)
	t0 := *now

	c.Set("old", "1")
	*now = t0.Add(30 * time.Second)
	c.Set("young", "2")

	*now = t0.Add(70 * time.Second)
	c.Prune()

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("young")
	assert.True(t, ok)
}

func TestCacheDeleteAndClear(t *testing.T) {
	c, _ := newTestCache(time.Hour, 10)

	c.Set("a", "1")
	c.Set("b", "2")

	c.Delete("a")
	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestCacheDefaults(t *testing.T) {
	c := New[string, int](0, 0)
	assert.Equal(t, DefaultTTL, c.ttl)
	assert.Equal(t, DefaultMaxEntries, c.maxEntries)

	c = New[string, int](-time.Second, -5)
	assert.Equal(t, DefaultTTL, c.ttl)
	assert.Equal(t, DefaultMaxEntries, c.maxEntries)
}
