package browse

import "time"

// ============================================================================
// Metrics Interfaces
// ============================================================================

// CacheMetrics collects listing cache statistics.
//
// The interface lives next to its consumer so that the engine has no
// dependency on any metrics backend. pkg/metrics provides a Prometheus
// implementation; a nil value falls back to the built-in no-op.
type CacheMetrics interface {
	// RecordHit is called when Get returns a live record.
	RecordHit()

	// RecordMiss is called when Get finds no record for the key.
	RecordMiss()

	// RecordExpiration is called when Get drops a record past its TTL.
	// An expired Get also counts as a miss.
	RecordExpiration()

	// RecordEviction is called when Set removes the oldest record to make
	// room for a new one.
	RecordEviction()

	// RecordEntryCount reports the number of records after a mutation.
	RecordEntryCount(count int)
}

// RemoteMetrics observes calls to the remote directory service.
type RemoteMetrics interface {
	// ObserveOperation records one remote call with its duration and outcome.
	// op is one of "list", "stat", "read".
	ObserveOperation(op string, duration time.Duration, success bool)
}

// noopCacheMetrics is the zero-overhead default.
type noopCacheMetrics struct{}

func (noopCacheMetrics) RecordHit()           {}
func (noopCacheMetrics) RecordMiss()          {}
func (noopCacheMetrics) RecordExpiration()    {}
func (noopCacheMetrics) RecordEviction()      {}
func (noopCacheMetrics) RecordEntryCount(int) {}

// noopRemoteMetrics is the zero-overhead default.
type noopRemoteMetrics struct{}

func (noopRemoteMetrics) ObserveOperation(string, time.Duration, bool) {}
