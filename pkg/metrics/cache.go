package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/epic-data/xrdbrowse/pkg/browse"
)

// listingCacheMetrics is the Prometheus implementation of the
// browse.CacheMetrics interface.
//
// This implementation collects metrics about the listing cache:
//   - Hit and miss counts
//   - TTL expirations and capacity evictions
//   - Current record count
type listingCacheMetrics struct {
	hits        prometheus.Counter
	misses      prometheus.Counter
	expirations prometheus.Counter
	evictions   prometheus.Counter
	entryCount  prometheus.Gauge
}

// NewListingCacheMetrics creates a new Prometheus-backed CacheMetrics
// instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called), which
// causes the cache to use its built-in no-op implementation.
func NewListingCacheMetrics() browse.CacheMetrics {
	if !IsEnabled() {
		return nil // Cache will use its no-op implementation
	}

	reg := GetRegistry()

	return &listingCacheMetrics{
		hits: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "xrdbrowse_listing_cache_hits_total",
				Help: "Total number of listing cache hits",
			},
		),
		misses: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "xrdbrowse_listing_cache_misses_total",
				Help: "Total number of listing cache misses, including expired reads",
			},
		),
		expirations: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "xrdbrowse_listing_cache_expirations_total",
				Help: "Total number of records dropped because their TTL elapsed",
			},
		),
		evictions: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "xrdbrowse_listing_cache_evictions_total",
				Help: "Total number of records evicted to make room at capacity",
			},
		),
		entryCount: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "xrdbrowse_listing_cache_entries",
				Help: "Current number of cached directory listings",
			},
		),
	}
}

// RecordHit implements browse.CacheMetrics.RecordHit
func (m *listingCacheMetrics) RecordHit() {
	m.hits.Inc()
}

// RecordMiss implements browse.CacheMetrics.RecordMiss
func (m *listingCacheMetrics) RecordMiss() {
	m.misses.Inc()
}

// RecordExpiration implements browse.CacheMetrics.RecordExpiration
func (m *listingCacheMetrics) RecordExpiration() {
	m.expirations.Inc()
}

// RecordEviction implements browse.CacheMetrics.RecordEviction
func (m *listingCacheMetrics) RecordEviction() {
	m.evictions.Inc()
}

// RecordEntryCount implements browse.CacheMetrics.RecordEntryCount
func (m *listingCacheMetrics) RecordEntryCount(count int) {
	m.entryCount.Set(float64(count))
}
