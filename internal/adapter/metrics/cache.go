package metrics

import "github.com/prometheus/client_golang/prometheus"

// CacheMetrics holds Prometheus metrics for the analysis result cache.
type CacheMetrics struct {
	Hits   prometheus.Counter
	Misses prometheus.Counter
	Errors *prometheus.CounterVec
	Shared prometheus.Counter
}

// NewCacheMetrics creates and registers cache metrics on the given registry.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	m := &CacheMetrics{
		Hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "result_cache",
			Name:      "hits_total",
			Help:      "Total number of result cache hits.",
		}),
		Misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "result_cache",
			Name:      "misses_total",
			Help:      "Total number of result cache misses.",
		}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "result_cache",
			Name:      "errors_total",
			Help:      "Total number of result cache errors, by operation.",
		}, []string{"op"}),
		Shared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "result_cache",
			Name:      "shared_total",
			Help:      "Total number of analyses served from an in-flight duplicate request.",
		}),
	}

	reg.MustRegister(m.Hits, m.Misses, m.Errors, m.Shared)
	return m
}
