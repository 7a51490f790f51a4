package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/hsrdle/datagen/internal/httpclient"
)

// InstrumentClient installs hooks on c that feed the outbound request metrics.
func (m *Metrics) InstrumentClient(c *httpclient.Client) {
	var started sync.Map // *http.Request -> time.Time

	c.SetBeforeRequestHook(func(req *http.Request) {
		started.Store(req, time.Now())
	})
	c.SetAfterResponseHook(func(req *http.Request, resp *http.Response, err error) {
		var elapsed time.Duration
		if v, ok := started.LoadAndDelete(req); ok {
			elapsed = time.Since(v.(time.Time))
		}
		m.HTTPClient.ObserveRequest(req, resp, err, elapsed)
	})
}
