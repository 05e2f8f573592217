package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"shaftmatch/internal/domain/entity"
)

const metricsNamespace = "shaftmatch"

// Metrics is safe to use as a nil pointer, in which case nothing is recorded.
type Metrics struct {
	classifications *prometheus.CounterVec
	matchDuration   prometheus.Histogram
	cacheLookups    *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		classifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "classifications_total",
				Help:      "Number of candidate shafts classified, by tier",
			},
			[]string{"tier"},
		),
		matchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "match_duration_seconds",
				Help:      "Time spent matching one reference against the catalog",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "match_cache_lookups_total",
				Help:      "Match cache lookups, by layer and result",
			},
			[]string{"layer", "result"},
		),
	}
}

func (m *Metrics) observeMatch(results []entity.MatchResult, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.matchDuration.Observe(elapsed.Seconds())

	for _, r := range results {
		m.classifications.WithLabelValues(r.Tier.Slug()).Inc()
	}
}

func (m *Metrics) observeLookup(layer string, hit bool) {
	if m == nil {
		return
	}

	result := "miss"
	if hit {
		result = "hit"
	}

	m.cacheLookups.WithLabelValues(layer, result).Inc()
}
