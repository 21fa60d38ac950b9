package metrics

import "github.com/prometheus/client_golang/prometheus"

// HistoryMetrics holds Prometheus metrics for analysis history persistence.
type HistoryMetrics struct {
	Writes        *prometheus.CounterVec
	Pruned        prometheus.Counter
	PruneDuration prometheus.Histogram
}

// NewHistoryMetrics creates and registers history metrics on the given registry.
func NewHistoryMetrics(reg prometheus.Registerer) *HistoryMetrics {
	m := &HistoryMetrics{
		Writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "writes_total",
			Help:      "Total number of history writes, by result.",
		}, []string{"result"}),
		Pruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "pruned_total",
			Help:      "Total number of history entries removed by retention.",
		}),
		PruneDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "prune_duration_seconds",
			Help:      "Duration of retention prune runs in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.Writes, m.Pruned, m.PruneDuration)
	return m
}
