// Package metrics holds the prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ImportRuns counts import runs by layout and outcome ("ok", "failed").
	ImportRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "labinventory",
		Name:      "import_runs_total",
		Help:      "Import runs by layout and outcome.",
	}, []string{"layout", "outcome"})

	// ImportRecords counts reconciled records by kind ("lab", "asset") and
	// outcome ("upserted", "rejected").
	ImportRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "labinventory",
		Name:      "import_records_total",
		Help:      "Reconciled import records by kind and outcome.",
	}, []string{"kind", "outcome"})

	ImportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "labinventory",
		Name:      "import_duration_seconds",
		Help:      "Wall time of import runs.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"layout"})
)
