package report

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dinnerclub_snapshot_loads_total",
		Help: "Snapshot loads by source and outcome",
	}, []string{"source", "status"})

	loadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dinnerclub_snapshot_load_duration_seconds",
		Help:    "Time spent fetching and normalising the ranking table",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	snapshotResponses = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dinnerclub_snapshot_responses",
		Help: "Responses in the most recently loaded snapshot",
	})

	snapshotMissingValues = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dinnerclub_snapshot_missing_values",
		Help: "Category cells that failed numeric coercion in the last snapshot",
	})

	headerCollisions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dinnerclub_header_collisions_total",
		Help: "Headers that resolved to an already claimed canonical name",
	})

	exportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dinnerclub_exports_total",
		Help: "CSV exports written",
	})
)
