// internal/metrics/metrics.go

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline counters exposed on /metrics.
var (
	RunsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retailtrends_runs_completed_total",
		Help: "Number of generation runs completed.",
	})

	RecordsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retailtrends_records_generated_total",
		Help: "Number of trend records generated across all runs.",
	})

	OracleFallbackBatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retailtrends_oracle_fallback_batches_total",
		Help: "Number of sentiment batches scored by the keyword fallback.",
	})

	StoreFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retailtrends_store_fallbacks_total",
		Help: "Number of times record persistence fell back to local storage.",
	})
)
