package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Engine query outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeRecovered = "recovered"
	OutcomeError     = "error"
)

// Engine Prometheus metrics.
var (
	EngineQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solrdex",
			Name:      "engine_queries_total",
			Help:      "Total number of search engine queries",
		},
		[]string{"outcome"}, // "ok" / "recovered" / "error"
	)

	EngineQueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "solrdex",
			Name:      "engine_query_duration_seconds",
			Help:      "Search engine query duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	DocumentsHiddenTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "solrdex",
			Name:      "documents_hidden_total",
			Help:      "Documents dropped from results by the visibility oracle",
		},
	)
)

var registerEngine sync.Once

// RegisterEngineMetrics registers the engine collectors on the default
// registry. Later calls are no-ops.
func RegisterEngineMetrics() {
	registerEngine.Do(func() {
		prometheus.MustRegister(EngineQueriesTotal, EngineQueryDuration, DocumentsHiddenTotal)
	})
}
