package browse

import (
	"context"
	"time"

	"github.com/epic-data/xrdbrowse/internal/logger"
)

// janitorInterval is how often expired cache records are swept. The sweep
// runs independently of request traffic; lazy expiry on reads keeps results
// correct either way, the janitor only bounds memory between requests.
const janitorInterval = 15 * time.Minute

// janitor periodically evicts expired records from a ListingCache.
//
// Lifecycle follows the engine: started at construction, stopped on Close.
// The worker goroutine shares the cache mutex with request-path access, so a
// sweep never observes partial state.
type janitor struct {
	cache    *ListingCache
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// newJanitor creates a janitor for cache. Call start() to begin sweeping.
func newJanitor(cache *ListingCache, interval time.Duration) *janitor {
	return &janitor{
		cache:    cache,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// start launches the background worker.
func (j *janitor) start() {
	logger.Debug("Listing cache janitor started: interval=%s", j.interval)
	go j.worker()
}

// stop signals the worker and waits for it to exit, or gives up when the
// context expires.
func (j *janitor) stop(ctx context.Context) error {
	close(j.stopCh)

	select {
	case <-j.doneCh:
		return nil
	case <-ctx.Done():
		logger.Warn("Listing cache janitor shutdown timeout")
		return ctx.Err()
	}
}

// worker is the background goroutine running periodic sweeps.
func (j *janitor) worker() {
	defer close(j.doneCh)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.cache.Cleanup()
		case <-j.stopCh:
			return
		}
	}
}
