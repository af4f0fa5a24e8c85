package recorder

import (
	"github.com/prometheus/client_golang/prometheus"

	"HypeSentinel/internal/model"
)

// PrometheusRecorder exports events as Prometheus metrics.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	cacheHits     *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	scores        prometheus.Histogram
	momentum      *prometheus.CounterVec
	attempts      *prometheus.CounterVec
	cascadeResult *prometheus.CounterVec
}

// NewPrometheusRecorder registers all collectors on reg.
func NewPrometheusRecorder(reg *prometheus.Registry) *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: reg,
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hypesentinel_cache_hits_total",
			Help: "Cache hits by namespace",
		}, []string{"namespace"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hypesentinel_cache_misses_total",
			Help: "Cache misses by namespace",
		}, []string{"namespace"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hypesentinel_upstream_fetches_total",
			Help: "Upstream fetches by provider and outcome",
		}, []string{"provider", "outcome"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hypesentinel_hype_score",
			Help:    "Distribution of computed hype scores",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		momentum: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hypesentinel_momentum_total",
			Help: "Computed scores by momentum class",
		}, []string{"momentum"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hypesentinel_generation_attempts_total",
			Help: "Generation attempts by provider, model and outcome",
		}, []string{"provider", "model", "outcome"}),
		cascadeResult: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hypesentinel_generation_cascades_total",
			Help: "Generation cascade results",
		}, []string{"outcome"}),
	}
	reg.MustRegister(r.cacheHits, r.cacheMisses, r.fetches, r.scores, r.momentum, r.attempts, r.cascadeResult)
	return r
}

// Registry returns the registry the collectors live on.
func (r *PrometheusRecorder) Registry() *prometheus.Registry { return r.registry }

func (r *PrometheusRecorder) RecordCache(namespace string, hit bool) {
	if hit {
		r.cacheHits.WithLabelValues(namespace).Inc()
		return
	}
	r.cacheMisses.WithLabelValues(namespace).Inc()
}

func (r *PrometheusRecorder) RecordFetch(provider, outcome string) {
	r.fetches.WithLabelValues(provider, outcome).Inc()
}

func (r *PrometheusRecorder) RecordScore(score *model.CompositeScore) {
	r.scores.Observe(float64(score.HypeScore))
	r.momentum.WithLabelValues(string(score.Momentum)).Inc()
}

func (r *PrometheusRecorder) RecordAttempt(provider, modelName, outcome string) {
	r.attempts.WithLabelValues(provider, modelName, outcome).Inc()
}

func (r *PrometheusRecorder) RecordCascade(outcome string) {
	r.cascadeResult.WithLabelValues(outcome).Inc()
}

func (r *PrometheusRecorder) Close() error { return nil }
