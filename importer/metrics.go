package importer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	importRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "org_import_runs_total",
		Help: "Import runs by entity type, ingestion method and outcome.",
	}, []string{"entity", "method", "outcome"})

	importRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "org_import_rows_total",
		Help: "Imported rows by entity type and outcome (created, updated, failed).",
	}, []string{"entity", "outcome"})

	importDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "org_import_duration_seconds",
		Help:    "Wall-clock duration of import runs.",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	}, []string{"entity"})
)

func observeRun(entity EntityType, method, outcome string, seconds float64) {
	importRuns.WithLabelValues(string(entity), method, outcome).Inc()
	if outcome != "failed" {
		importDuration.WithLabelValues(string(entity)).Observe(seconds)
	}
}

func observeRows(entity EntityType, out Outcome) {
	importRows.WithLabelValues(string(entity), "created").Add(float64(out.Created))
	importRows.WithLabelValues(string(entity), "updated").Add(float64(out.Updated))
	importRows.WithLabelValues(string(entity), "failed").Add(float64(out.Error))
}
