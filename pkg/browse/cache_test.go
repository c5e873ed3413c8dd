package browse

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epic-data/xrdbrowse/pkg/remote"
)

func listingOf(names ...string) []remote.DirectoryEntry {
	entries := make([]remote.DirectoryEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, remote.DirectoryEntry{Name: name})
	}
	return entries
}

func TestCacheSetGet(t *testing.T) {
	cache := NewListingCache(time.Hour, 10, nil)

	cache.Set("/data/a", listingOf("x", "y"))

	entries, ok := cache.Get("/data/a")
	require.True(t, ok)
	assert.Len(t, entries, 2)

	_, ok = cache.Get("/data/missing")
	assert.False(t, ok)
}

func TestCacheLazyExpiry(t *testing.T) {
	cache := NewListingCache(time.Minute, 10, nil)

	cache.Set("/data/a", listingOf("x"))
	cache.backdate("/data/a", 2*time.Minute)

	_, ok := cache.Get("/data/a")
	assert.False(t, ok, "expired record must read as absent")
	assert.Equal(t, 0, cache.Len(), "expired record must be deleted on read")
}

func TestCacheEvictsOldestWrite(t *testing.T) {
	cache := NewListingCache(time.Hour, 3, nil)

	cache.Set("/a", listingOf("a"))
	cache.Set("/b", listingOf("b"))
	cache.Set("/c", listingOf("c"))

	// Make the write order unambiguous regardless of clock resolution.
	cache.backdate("/a", 3*time.Second)
	cache.backdate("/b", 2*time.Second)
	cache.backdate("/c", 1*time.Second)

	// Reads never refresh the write time, so reading /a does not save it.
	_, ok := cache.Get("/a")
	require.True(t, ok)

	cache.Set("/d", listingOf("d"))

	_, ok = cache.Get("/a")
	assert.False(t, ok, "oldest-written record is evicted, read recency is ignored")
	for _, key := range []string{"/b", "/c", "/d"} {
		_, ok := cache.Get(key)
		assert.True(t, ok, "record %s must survive eviction", key)
	}
	assert.Equal(t, 3, cache.Len())
}

func TestCacheOverwriteAtCapacityStillEvicts(t *testing.T) {
	cache := NewListingCache(time.Hour, 2, nil)

	cache.Set("/a", listingOf("a"))
	cache.Set("/b", listingOf("b"))
	cache.backdate("/a", 2*time.Second)
	cache.backdate("/b", 1*time.Second)

	// The capacity check runs before every write, so overwriting /b in a
	// full cache evicts the oldest record /a first.
	cache.Set("/b", listingOf("b2"))

	_, ok := cache.Get("/a")
	assert.False(t, ok)

	entries, ok := cache.Get("/b")
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, "b2", entries[0].Name)
	assert.Equal(t, 1, cache.Len())
}

func TestCacheInvalidateAndClear(t *testing.T) {
	cache := NewListingCache(time.Hour, 10, nil)

	cache.Set("/a", listingOf("a"))
	cache.Set("/b", listingOf("b"))

	cache.Invalidate("/a")
	_, ok := cache.Get("/a")
	assert.False(t, ok)
	_, ok = cache.Get("/b")
	assert.True(t, ok)

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}

func TestCacheCleanup(t *testing.T) {
	cache := NewListingCache(time.Minute, 10, nil)

	for i := 0; i < 5; i++ {
		cache.Set(fmt.Sprintf("/dir%d", i), listingOf("x"))
	}
	cache.backdate("/dir0", 2*time.Minute)
	cache.backdate("/dir1", 2*time.Minute)

	removed := cache.Cleanup()
	assert.Equal(t, 2, removed)
	assert.Equal(t, 3, cache.Len())

	assert.Equal(t, 0, cache.Cleanup(), "second pass finds nothing expired")
}

type countingCacheMetrics struct {
	hits, misses, expirations, evictions int
	entryCount                           int
}

func (m *countingCacheMetrics) RecordHit()             { m.hits++ }
func (m *countingCacheMetrics) RecordMiss()            { m.misses++ }
func (m *countingCacheMetrics) RecordExpiration()      { m.expirations++ }
func (m *countingCacheMetrics) RecordEviction()        { m.evictions++ }
func (m *countingCacheMetrics) RecordEntryCount(n int) { m.entryCount = n }

func TestCacheMetricsAccounting(t *testing.T) {
	metrics := &countingCacheMetrics{}
	cache := NewListingCache(time.Minute, 1, metrics)

	cache.Set("/a", listingOf("a"))
	cache.Get("/a")
	cache.Get("/missing")
	cache.Set("/b", listingOf("b"))
	cache.backdate("/b", 2*time.Minute)
	cache.Get("/b")

	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 2, metrics.misses, "absent and expired reads both count as misses")
	assert.Equal(t, 1, metrics.expirations)
	assert.Equal(t, 1, metrics.evictions, "writing /b into a full cache evicts /a")
	assert.Equal(t, 0, metrics.entryCount)
}
