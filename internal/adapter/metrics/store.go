package metrics

import "github.com/prometheus/client_golang/prometheus"

// StoreMetrics holds Prometheus metrics for the history stores.
type StoreMetrics struct {
	QueryDuration *prometheus.HistogramVec
	QueryErrors   *prometheus.CounterVec
}

// NewStoreMetrics creates and registers store metrics on the given registry.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "query_duration_seconds",
			Help:      "Duration of history store queries in seconds, by backend and statement kind.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"backend", "query"}),
		QueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "query_errors_total",
			Help:      "Total number of failed history store queries, by backend and statement kind.",
		}, []string{"backend", "query"}),
	}

	reg.MustRegister(m.QueryDuration, m.QueryErrors)
	return m
}

// Observe records one query.
func (m *StoreMetrics) Observe(backend, query string, seconds float64, err error) {
	if m == nil {
		return
	}
	m.QueryDuration.WithLabelValues(backend, query).Observe(seconds)
	if err != nil {
		m.QueryErrors.WithLabelValues(backend, query).Inc()
	}
}
