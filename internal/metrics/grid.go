package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "esgrid"

// Grid Prometheus metrics.
var (
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Grid query duration in seconds, compile plus engine round trip",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"outcome"}, // "ok" / "invalid" / "error"
	)

	WritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "writes_total",
			Help:      "Total item writes by operation and status",
		},
		[]string{"op", "status"},
	)

	RefreshFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_failures_total",
			Help:      "Post-write index refreshes that failed",
		},
	)

	IdentityConflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identity_conflicts_total",
			Help:      "Auto-assigned identities that collided with an existing document",
		},
	)

	SeededDocumentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seeded_documents_total",
			Help:      "Documents bulk-loaded by index bootstrap",
		},
	)

	TickerSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ticker_subscribers",
			Help:      "Active stock ticker subscribers",
		},
	)
)

var gridMetricsRegistered bool

// RegisterGridMetrics registers Prometheus grid metrics. Must be called once from main.
func RegisterGridMetrics() {
	if gridMetricsRegistered {
		return
	}
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(WritesTotal)
	prometheus.MustRegister(RefreshFailuresTotal)
	prometheus.MustRegister(IdentityConflictsTotal)
	prometheus.MustRegister(SeededDocumentsTotal)
	prometheus.MustRegister(TickerSubscribers)
	gridMetricsRegistered = true
}
