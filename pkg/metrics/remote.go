package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/epic-data/xrdbrowse/pkg/browse"
)

// remoteMetrics is the Prometheus implementation of the browse.RemoteMetrics
// interface.
//
// This implementation collects metrics about remote directory service calls:
//   - Operation counts labeled by operation and outcome
//   - Operation latencies labeled by operation
type remoteMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewRemoteMetrics creates a new Prometheus-backed RemoteMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called), which
// causes the engine to use its built-in no-op implementation.
func NewRemoteMetrics() browse.RemoteMetrics {
	if !IsEnabled() {
		return nil // Engine will use its no-op implementation
	}

	reg := GetRegistry()

	return &remoteMetrics{
		operations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "xrdbrowse_remote_operations_total",
				Help: "Total number of remote directory service calls",
			},
			[]string{"operation", "status"},
		),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "xrdbrowse_remote_operation_duration_seconds",
				Help: "Duration of remote directory service calls in seconds",
				Buckets: []float64{
					0.005, // 5ms
					0.01,  // 10ms
					0.05,  // 50ms
					0.1,   // 100ms
					0.5,   // 500ms
					1,     // 1s
					5,     // 5s
					10,    // 10s
					30,    // 30s
					60,    // 60s
				},
			},
			[]string{"operation"},
		),
	}
}

// ObserveOperation implements browse.RemoteMetrics.ObserveOperation
func (m *remoteMetrics) ObserveOperation(op string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.operations.WithLabelValues(op, status).Inc()
	m.duration.WithLabelValues(op).Observe(duration.Seconds())
}
