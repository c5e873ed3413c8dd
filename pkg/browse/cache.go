package browse

import (
	"sync"
	"time"

	"github.com/epic-data/xrdbrowse/internal/logger"
	"github.com/epic-data/xrdbrowse/pkg/remote"
)

// ListingCache is a bounded, time-expiring store of single-directory listings
// keyed by resolved path.
//
// Cache Strategy:
//   - TTL-based expiration, checked lazily on every read: an expired record
//     is deleted and reported as absent, independent of the periodic Cleanup.
//   - Capacity-bound with eviction by oldest write time. When the cache is
//     full, Set removes the record with the smallest cachedAt before writing,
//     found by a full scan over all records. Reads never refresh cachedAt, so
//     this is FIFO-by-write-time, not recency-based LRU. A frequently read
//     entry is exactly as evictable as one never read again. This matches the
//     historical behavior and is preserved deliberately (see DESIGN.md).
//   - The capacity check runs before every write, whether or not the key
//     already exists, so overwriting a key in a full cache still evicts the
//     oldest record (possibly a different key, possibly the key itself).
//
// Thread Safety:
// All operations are guarded by a single mutex. The lock only covers the
// in-memory map; it is never held across a remote call.
type ListingCache struct {
	mu       sync.Mutex
	records  map[string]*cacheRecord
	ttl      time.Duration
	capacity int
	metrics  CacheMetrics
}

// cacheRecord holds one directory listing and its write time.
type cacheRecord struct {
	entries  []remote.DirectoryEntry
	cachedAt time.Time
}

// NewListingCache creates a cache bounded by capacity records and ttl age.
//
// Parameters:
//   - ttl: Maximum record age before a read treats it as absent
//   - capacity: Maximum number of records held at once
//   - metrics: Optional statistics collector (nil for no-op)
func NewListingCache(ttl time.Duration, capacity int, metrics CacheMetrics) *ListingCache {
	if metrics == nil {
		metrics = noopCacheMetrics{}
	}

	return &ListingCache{
		records:  make(map[string]*cacheRecord),
		ttl:      ttl,
		capacity: capacity,
		metrics:  metrics,
	}
}

// Get returns the cached listing for key, or (nil, false) when absent.
//
// A record older than the TTL is deleted on the spot and reported absent;
// expiry does not wait for the janitor.
func (c *ListingCache) Get(key string) ([]remote.DirectoryEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	record, ok := c.records[key]
	if !ok {
		c.metrics.RecordMiss()
		return nil, false
	}

	if time.Since(record.cachedAt) > c.ttl {
		delete(c.records, key)
		c.metrics.RecordExpiration()
		c.metrics.RecordMiss()
		c.metrics.RecordEntryCount(len(c.records))
		return nil, false
	}

	c.metrics.RecordHit()
	return record.entries, true
}

// Set stores a listing for key, evicting the oldest record first when the
// cache is at capacity.
func (c *ListingCache) Set(key string, entries []remote.DirectoryEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.records) >= c.capacity {
		c.evictOldest()
	}

	c.records[key] = &cacheRecord{
		entries:  entries,
		cachedAt: time.Now(),
	}
	c.metrics.RecordEntryCount(len(c.records))
}

// Invalidate removes the record for key, if any.
func (c *ListingCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.records, key)
	c.metrics.RecordEntryCount(len(c.records))
}

// Clear removes all records.
func (c *ListingCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = make(map[string]*cacheRecord)
	c.metrics.RecordEntryCount(0)
}

// Cleanup deletes every record whose age exceeds the TTL and returns how many
// were removed. The janitor calls this on a fixed period so memory does not
// grow unbounded between requests; request traffic does not depend on it.
func (c *ListingCache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := time.Now()
	for key, record := range c.records {
		if now.Sub(record.cachedAt) > c.ttl {
			delete(c.records, key)
			removed++
		}
	}

	if removed > 0 {
		c.metrics.RecordEntryCount(len(c.records))
		logger.Debug("Listing cache cleanup removed %d expired records", removed)
	}

	return removed
}

// Len returns the current number of records.
func (c *ListingCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// evictOldest removes the record with the smallest cachedAt.
//
// Full scan over all records. Must be called with c.mu held.
func (c *ListingCache) evictOldest() {
	var oldestKey string
	var oldest *cacheRecord

	for key, record := range c.records {
		if oldest == nil || record.cachedAt.Before(oldest.cachedAt) {
			oldest = record
			oldestKey = key
		}
	}

	if oldest == nil {
		return
	}

	delete(c.records, oldestKey)
	c.metrics.RecordEviction()
	logger.Debug("Evicted listing cache record: %s", oldestKey)
}

// backdate rewinds a record's write time. Test hook only.
func (c *ListingCache) backdate(key string, by time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if record, ok := c.records[key]; ok {
		record.cachedAt = record.cachedAt.Add(-by)
	}
}
