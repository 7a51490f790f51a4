package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// newClient returns a Client closed at test end. A nil cfg uses DefaultConfig.
func newClient(t *testing.T, cfg *Config) *Client {
	t.Helper()
	client := New(cfg)
	t.Cleanup(client.Close)
	return client
}

func newUpstream(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

// closeBody closes resp's body, tolerating a nil response.
func closeBody(t *testing.T, resp *http.Response) {
	t.Helper()
	if resp == nil || resp.Body == nil {
		return
	}
	if err := resp.Body.Close(); err != nil {
		t.Logf("close response body: %v", err)
	}
}
