package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// RecommendTotal counts recommendation requests by cache outcome.
	RecommendTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripdex",
			Name:      "recommend_requests_total",
			Help:      "Total recommendation requests",
		},
		[]string{"cache"},
	)

	// RecommendDuration observes extract+rank+format latency for cache misses.
	RecommendDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tripdex",
			Name:      "recommend_duration_seconds",
			Help:      "Recommendation pipeline duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	// IndexRebuilds counts catalog reload + index rebuild cycles.
	IndexRebuilds = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tripdex",
			Name:      "index_rebuilds_total",
			Help:      "Total index rebuilds",
		},
	)

	// IndexedSpots tracks the size of the current build generation.
	IndexedSpots = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tripdex",
			Name:      "indexed_spots",
			Help:      "Number of destinations in the current index",
		},
	)
)

// RegisterRecommenderMetrics registers the domain collectors explicitly
// (no init()), so the embedded SDK can opt out of them.
func RegisterRecommenderMetrics() {
	prometheus.MustRegister(RecommendTotal)
	prometheus.MustRegister(RecommendDuration)
	prometheus.MustRegister(IndexRebuilds)
	prometheus.MustRegister(IndexedSpots)
}
