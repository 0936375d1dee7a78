// Package metrics exposes the prometheus counters the orchestrator updates
// as it drops events (spec §7 "User-visible behavior": "Each dropped event
// is counted in a metrics counter; no user-facing error channel exists").
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hostvuln/scanorch"
)

// DroppedEvents counts events dropped by the orchestrator, partitioned by
// the scanorch.ErrorKind that caused the drop.
var DroppedEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "vdscand",
	Name:      "dropped_events_total",
	Help:      "Number of inbound events dropped before reaching the indexer, by error kind.",
}, []string{"kind"})

// ChainDuration observes the wall-clock time a single ScanContext spends
// traversing its stage chain, partitioned by scanner type.
var ChainDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "vdscand",
	Name:      "chain_duration_seconds",
	Help:      "Time spent running one ScanContext through its stage chain.",
	Buckets:   prometheus.DefBuckets,
}, []string{"scanner_type"})

func init() {
	prometheus.MustRegister(DroppedEvents, ChainDuration)
}

// ObserveDrop increments the DroppedEvents counter for err's ErrorKind, or
// "unknown" if err does not carry one.
func ObserveDrop(err error) {
	var se *scanorch.Error
	if e, ok := err.(*scanorch.Error); ok {
		se = e
	}
	kind := "unknown"
	if se != nil {
		kind = string(se.Kind)
	}
	DroppedEvents.WithLabelValues(kind).Inc()
}
