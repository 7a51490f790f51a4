package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// DatasetMetrics tracks pipeline runs.
type DatasetMetrics struct {
	recordsBuilt prometheus.Counter
	entryPanics  prometheus.Counter
	runDuration  prometheus.Gauge
	lastSuccess  prometheus.Gauge
	registry     *prometheus.Registry
}

// NewDatasetMetrics creates and registers pipeline metrics.
func NewDatasetMetrics(registry *prometheus.Registry) (*DatasetMetrics, error) {
	m := &DatasetMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register dataset metrics: %w", err)
	}
	return m, nil
}

func (m *DatasetMetrics) initMetrics() {
	m.recordsBuilt = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dataset_records_total",
		Help:      "Character records assembled.",
	})

	m.entryPanics = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dataset_entry_panics_total",
		Help:      "Entries whose processing panicked and fell back to degraded values.",
	})

	m.runDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dataset_build_duration_seconds",
		Help:      "Duration of the last pipeline run.",
	})

	m.lastSuccess = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dataset_last_success_timestamp_seconds",
		Help:      "Unix time of the last successful dataset write.",
	})
}

// IncRecords counts an assembled record.
func (m *DatasetMetrics) IncRecords() {
	if m == nil {
		return
	}
	m.recordsBuilt.Inc()
}

// IncPanics counts a recovered entry panic.
func (m *DatasetMetrics) IncPanics() {
	if m == nil {
		return
	}
	m.entryPanics.Inc()
}

// SetRunDuration records how long the last run took.
func (m *DatasetMetrics) SetRunDuration(seconds float64) {
	if m == nil {
		return
	}
	m.runDuration.Set(seconds)
}

// MarkSuccess stamps the last successful write time.
func (m *DatasetMetrics) MarkSuccess() {
	if m == nil {
		return
	}
	m.lastSuccess.SetToCurrentTime()
}

// Describe implements the prometheus.Collector interface.
func (m *DatasetMetrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.recordsBuilt.Desc()
	ch <- m.entryPanics.Desc()
	ch <- m.runDuration.Desc()
	ch <- m.lastSuccess.Desc()
}

// Collect implements the prometheus.Collector interface.
func (m *DatasetMetrics) Collect(ch chan<- prometheus.Metric) {
	ch <- m.recordsBuilt
	ch <- m.entryPanics
	ch <- m.runDuration
	ch <- m.lastSuccess
}
