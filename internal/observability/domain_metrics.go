package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	askRequestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tengeql_ask_requests_total",
			Help: "Total number of ask requests.",
		},
	)
	intentResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tengeql_intent_resolutions_total",
			Help: "Intent resolution outcomes by intent tag.",
		},
		[]string{"intent"},
	)
	llmFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tengeql_llm_fallback_total",
			Help: "LLM SQL fallback attempts by outcome.",
		},
		[]string{"outcome"},
	)
	askDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tengeql_ask_duration_seconds",
			Help:    "End-to-end ask pipeline latency in seconds.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
	queryRowsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tengeql_query_rows_returned",
			Help:    "Row counts returned by executed statements.",
			Buckets: []float64{0, 1, 10, 50, 100, 500, 1000, 5000},
		},
	)
)

func init() {
	prometheus.MustRegister(
		askRequestsTotal,
		intentResolutionsTotal,
		llmFallbackTotal,
		askDurationSeconds,
		queryRowsReturned,
	)
}

func ObserveAsk(intent string, rows int, elapsed time.Duration) {
	askRequestsTotal.Inc()
	intentResolutionsTotal.WithLabelValues(intent).Inc()
	askDurationSeconds.Observe(elapsed.Seconds())
	if rows >= 0 {
		queryRowsReturned.Observe(float64(rows))
	}
}

func IncrementLLMFallback(outcome string) {
	llmFallbackTotal.WithLabelValues(outcome).Inc()
}
