package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPClientMetrics records outbound requests made by the shared HTTP client.
type HTTPClientMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	registry *prometheus.Registry
}

// NewHTTPClientMetrics creates and registers outbound HTTP metrics.
func NewHTTPClientMetrics(registry *prometheus.Registry) (*HTTPClientMetrics, error) {
	m := &HTTPClientMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register http client metrics: %w", err)
	}
	return m, nil
}

func (m *HTTPClientMetrics) initMetrics() {
	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_client_requests_total",
		Help:      "Outbound HTTP requests by host and status code (\"error\" for transport failures).",
	}, []string{"host", "status_code"})

	m.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_client_request_duration_seconds",
		Help:      "Time until response headers were received.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"host"})
}

// ObserveRequest records one exchange. resp may be nil when err is set.
func (m *HTTPClientMetrics) ObserveRequest(req *http.Request, resp *http.Response, err error, elapsed time.Duration) {
	if m == nil || req == nil {
		return
	}
	status := "error"
	if err == nil && resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	m.requests.WithLabelValues(req.URL.Host, status).Inc()
	m.duration.WithLabelValues(req.URL.Host).Observe(elapsed.Seconds())
}

// Describe implements the prometheus.Collector interface.
func (m *HTTPClientMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.requests.Describe(ch)
	m.duration.Describe(ch)
}

// Collect implements the prometheus.Collector interface.
func (m *HTTPClientMetrics) Collect(ch chan<- prometheus.Metric) {
	m.requests.Collect(ch)
	m.duration.Collect(ch)
}
