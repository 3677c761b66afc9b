package pathfind

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics grounded on shards/shards.go's metricSearchDuration/
// metricSearchRunning pattern: one histogram for latency, one counter for
// the cumulative work a query did, both labeled by algorithm so Bfs and
// Dijkstra traffic can be told apart on a dashboard.
var (
	metricDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "artistpath_pathfind_duration_seconds",
		Help:    "Duration of a find-path query in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"algorithm"})

	metricVisitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artistpath_pathfind_visited_total",
		Help: "Cumulative number of artists visited across find-path queries",
	}, []string{"algorithm"})
)

func observe(algo string, seconds float64, visited int) {
	metricDuration.WithLabelValues(algo).Observe(seconds)
	metricVisitedTotal.WithLabelValues(algo).Add(float64(visited))
}
