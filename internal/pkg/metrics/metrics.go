// Package metrics exposes the Prometheus instruments for the sync pipeline.
// Collectors are registered on the default registry and served through the
// /metrics endpoint in serve mode.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SyncRuns counts finished reconciliation runs by result
	// (success, failure, locked).
	SyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "returnsync",
		Name:      "sync_runs_total",
		Help:      "Finished reconciliation runs by result.",
	}, []string{"result"})

	// EventsProcessed counts carrier events that moved a return forward.
	EventsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "returnsync",
		Name:      "sync_events_processed_total",
		Help:      "Carrier events applied to returns.",
	})

	// Anomalies counts skipped and rejected events.
	Anomalies = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "returnsync",
		Name:      "sync_anomalies_total",
		Help:      "Carrier events skipped or rejected during reconciliation.",
	})

	// SyncDuration observes how long one reconciliation run takes.
	SyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "returnsync",
		Name:      "sync_duration_seconds",
		Help:      "Duration of one reconciliation run.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Result label values for SyncRuns.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultLocked  = "locked"
)
