package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// FeedMetrics tracks metadata feed retrieval.
type FeedMetrics struct {
	fetches  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	entries  *prometheus.GaugeVec
	skipped  prometheus.Counter
	registry *prometheus.Registry
}

// NewFeedMetrics creates and registers feed metrics.
func NewFeedMetrics(registry *prometheus.Registry) (*FeedMetrics, error) {
	m := &FeedMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register feed metrics: %w", err)
	}
	return m, nil
}

func (m *FeedMetrics) initMetrics() {
	m.fetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_fetches_total",
		Help:      "Metadata feed fetches by feed and result.",
	}, []string{"feed", "result"})

	m.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "feed_fetch_duration_seconds",
		Help:      "Time taken to fetch and parse a metadata feed.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 8),
	}, []string{"feed"})

	m.entries = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "feed_entries",
		Help:      "Number of entries parsed from each feed.",
	}, []string{"feed"})

	m.skipped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_skipped_entries_total",
		Help:      "Character entries skipped because their key is not a positive integer.",
	})
}

// RecordFetch records one feed retrieval.
func (m *FeedMetrics) RecordFetch(feed string, seconds float64, err error) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.fetches.WithLabelValues(feed, result).Inc()
	m.duration.WithLabelValues(feed).Observe(seconds)
}

// SetEntries sets the parsed entry count of a feed.
func (m *FeedMetrics) SetEntries(feed string, n int) {
	if m == nil {
		return
	}
	m.entries.WithLabelValues(feed).Set(float64(n))
}

// IncSkipped counts a skipped character entry.
func (m *FeedMetrics) IncSkipped() {
	if m == nil {
		return
	}
	m.skipped.Inc()
}

// Describe implements the prometheus.Collector interface.
func (m *FeedMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.fetches.Describe(ch)
	m.duration.Describe(ch)
	m.entries.Describe(ch)
	ch <- m.skipped.Desc()
}

// Collect implements the prometheus.Collector interface.
func (m *FeedMetrics) Collect(ch chan<- prometheus.Metric) {
	m.fetches.Collect(ch)
	m.duration.Collect(ch)
	m.entries.Collect(ch)
	ch <- m.skipped
}
