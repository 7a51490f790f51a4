package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// WikiMetrics tracks wiki attribute lookups.
type WikiMetrics struct {
	lookups  *prometheus.CounterVec
	duration prometheus.Histogram
	registry *prometheus.Registry
}

// NewWikiMetrics creates and registers wiki metrics.
func NewWikiMetrics(registry *prometheus.Registry) (*WikiMetrics, error) {
	m := &WikiMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register wiki metrics: %w", err)
	}
	return m, nil
}

func (m *WikiMetrics) initMetrics() {
	m.lookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wiki_lookups_total",
		Help:      "Wiki attribute lookups by result (parsed, no_infobox, failed).",
	}, []string{"result"})

	m.duration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "wiki_lookup_duration_seconds",
		Help:      "Time spent fetching and parsing a wiki page, including rate limiting.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 8),
	})
}

// RecordLookup records one lookup and its duration.
func (m *WikiMetrics) RecordLookup(result string, seconds float64) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(result).Inc()
	m.duration.Observe(seconds)
}

// Describe implements the prometheus.Collector interface.
func (m *WikiMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.lookups.Describe(ch)
	ch <- m.duration.Desc()
}

// Collect implements the prometheus.Collector interface.
func (m *WikiMetrics) Collect(ch chan<- prometheus.Metric) {
	m.lookups.Collect(ch)
	ch <- m.duration
}
