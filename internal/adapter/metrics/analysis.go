package metrics

import "github.com/prometheus/client_golang/prometheus"

// AnalysisMetrics holds Prometheus metrics for the scoring pipeline.
type AnalysisMetrics struct {
	Analyses            *prometheus.CounterVec
	Duration            prometheus.Histogram
	Fallbacks           *prometheus.CounterVec
	EmojiRescoreSkipped prometheus.Counter
	RelevanceVerdicts   *prometheus.CounterVec
	BreakerState        *prometheus.GaugeVec
}

// NewAnalysisMetrics creates and registers analysis metrics on the given registry.
func NewAnalysisMetrics(reg prometheus.Registerer) *AnalysisMetrics {
	m := &AnalysisMetrics{
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "scored_total",
			Help:      "Total number of texts scored, by the classifier that produced the raw scores.",
		}, []string{"classifier"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Duration of scoring one text, including classifier calls.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "fallbacks_total",
			Help:      "Total number of primary classifier failures answered by the heuristic, by reason.",
		}, []string{"reason"}),
		EmojiRescoreSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "emoji_rescore_skipped_total",
			Help:      "Total number of emoji dropped from per-emoji analysis after a scoring failure.",
		}),
		RelevanceVerdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "relevance_verdicts_total",
			Help:      "Total number of aggregate emoji relevance verdicts, by status.",
		}, []string{"status"}),
		BreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "breaker_state",
			Help:      "Circuit breaker state of the remote classifier (0=closed, 1=half-open, 2=open).",
		}, []string{"classifier"}),
	}

	reg.MustRegister(m.Analyses, m.Duration, m.Fallbacks, m.EmojiRescoreSkipped, m.RelevanceVerdicts, m.BreakerState)
	return m
}
