package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hsrdle/datagen/internal/errors"
	"github.com/hsrdle/datagen/internal/logger"
	"github.com/hsrdle/datagen/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry   *prometheus.Registry
	Feed       *metrics.FeedMetrics
	ImageCache *metrics.ImageCacheMetrics
	Wiki       *metrics.WikiMetrics
	Dataset    *metrics.DatasetMetrics
	HTTPClient *metrics.HTTPClientMetrics
}

// NewMetrics creates a new instance of Metrics, initializing all metric collectors
// on a private registry.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	feedMetrics, err := metrics.NewFeedMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed metrics: %w", err)
	}

	imageCacheMetrics, err := metrics.NewImageCacheMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create image cache metrics: %w", err)
	}

	wikiMetrics, err := metrics.NewWikiMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create wiki metrics: %w", err)
	}

	datasetMetrics, err := metrics.NewDatasetMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset metrics: %w", err)
	}

	httpMetrics, err := metrics.NewHTTPClientMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client metrics: %w", err)
	}

	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register go collector: %w", err)
	}

	return &Metrics{
		registry:   registry,
		Feed:       feedMetrics,
		ImageCache: imageCacheMetrics,
		Wiki:       wikiMetrics,
		Dataset:    datasetMetrics,
		HTTPClient: httpMetrics,
	}, nil
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}

// RegisterHandlers registers the metrics endpoint with the provided http.ServeMux.
func (m *Metrics) RegisterHandlers(mux *http.ServeMux) {
	mux.Handle("/metrics", m.Handler())
}

// WriteTextfile writes the current registry state to path for the node_exporter
// textfile collector. The write is atomic.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.New(err).
			Component("metrics").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	GetLogger().Debug("metrics textfile written", logger.String("path", path))
	return nil
}
