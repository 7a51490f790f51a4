package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// ImageCacheMetrics contains metrics for the icon cache.
type ImageCacheMetrics struct {
	outcomes         *prometheus.CounterVec
	downloadedBytes  prometheus.Counter
	downloadDuration prometheus.Histogram
	registry         *prometheus.Registry
}

// NewImageCacheMetrics creates and registers image cache metrics.
func NewImageCacheMetrics(registry *prometheus.Registry) (*ImageCacheMetrics, error) {
	m := &ImageCacheMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register image cache metrics: %w", err)
	}
	return m, nil
}

func (m *ImageCacheMetrics) initMetrics() {
	m.outcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_cache_outcomes_total",
		Help:      "EnsureCached calls by cache directory and outcome.",
	}, []string{"dir", "outcome"})

	m.downloadedBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_downloaded_bytes_total",
		Help:      "Bytes written to the icon cache.",
	})

	m.downloadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "image_download_duration_seconds",
		Help:      "Duration of icon downloads in seconds.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 8),
	})
}

// RecordOutcome counts one cache decision.
func (m *ImageCacheMetrics) RecordOutcome(dir, outcome string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(dir, outcome).Inc()
}

// ObserveDownload records a completed download.
func (m *ImageCacheMetrics) ObserveDownload(bytes int64, seconds float64) {
	if m == nil {
		return
	}
	m.downloadedBytes.Add(float64(bytes))
	m.downloadDuration.Observe(seconds)
}

// Describe implements the prometheus.Collector interface.
func (m *ImageCacheMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.outcomes.Describe(ch)
	ch <- m.downloadedBytes.Desc()
	ch <- m.downloadDuration.Desc()
}

// Collect implements the prometheus.Collector interface.
func (m *ImageCacheMetrics) Collect(ch chan<- prometheus.Metric) {
	m.outcomes.Collect(ch)
	ch <- m.downloadedBytes
	ch <- m.downloadDuration
}
