package imagecache

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsrdle/datagen/internal/errors"
	"github.com/hsrdle/datagen/internal/observability/metrics"
	"github.com/hsrdle/datagen/internal/testutil"
)

const (
	testBase   = "https://res.example/master"
	iconRemote = "icon/character/1001.png"
	iconURL    = testBase + "/" + iconRemote
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake-image-data")

func newTestFetcher(t *testing.T, opts ...Option) (*Fetcher, *httpmock.MockTransport) {
	t.Helper()
	hc, transport := testutil.NewMockedClient(t)
	return New(hc, testBase+"/", opts...), transport
}

// listDir returns the names in dir, to catch leftover temp files.
func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestEnsureCached_DownloadsOnce(t *testing.T) {
	t.Parallel()

	fetcher, transport := newTestFetcher(t)
	transport.RegisterResponder(http.MethodGet, iconURL, httpmock.NewBytesResponder(http.StatusOK, pngBytes))

	dir := t.TempDir()
	dest := filepath.Join(dir, "1001.png")

	assert.Equal(t, OutcomeDownloaded, fetcher.EnsureCached(context.Background(), iconRemote, dest))

	content, err := os.ReadFile(dest) //nolint:gosec // test file path from t.TempDir()
	require.NoError(t, err)
	assert.Equal(t, pngBytes, content)
	assert.Equal(t, []string{"1001.png"}, listDir(t, dir))

	assert.Equal(t, OutcomeCached, fetcher.EnsureCached(context.Background(), iconRemote, dest))
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestEnsureCached_ExistingFileMakesNoRequest(t *testing.T) {
	t.Parallel()

	fetcher, transport := newTestFetcher(t)

	dest := filepath.Join(t.TempDir(), "Knight.png")
	original := []byte("already here")
	require.NoError(t, os.WriteFile(dest, original, 0o600))

	assert.Equal(t, OutcomeCached, fetcher.EnsureCached(context.Background(), "icon/path/Preservation.png", dest))
	assert.Equal(t, 0, transport.GetTotalCallCount())

	content, err := os.ReadFile(dest) //nolint:gosec // test file path from t.TempDir()
	require.NoError(t, err)
	assert.Equal(t, original, content)
}

func TestEnsureCached_FailuresLeaveNoFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		responder httpmock.Responder
	}{
		{"not found", httpmock.NewStringResponder(http.StatusNotFound, "404: Not Found")},
		{"server error", httpmock.NewStringResponder(http.StatusBadGateway, "bad gateway")},
		{"transport error", httpmock.NewErrorResponder(errors.NewStd("connection reset by peer"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fetcher, transport := newTestFetcher(t)
			transport.RegisterResponder(http.MethodGet, iconURL, tt.responder)

			dir := t.TempDir()
			dest := filepath.Join(dir, "1001.png")

			assert.Equal(t, OutcomeFailed, fetcher.EnsureCached(context.Background(), iconRemote, dest))
			assert.NoFileExists(t, dest)
			assert.Empty(t, listDir(t, dir))
		})
	}
}

func TestEnsureCached_FailureReleasesClaim(t *testing.T) {
	t.Parallel()

	fetcher, transport := newTestFetcher(t)
	transport.RegisterResponder(http.MethodGet, iconURL,
		httpmock.NewStringResponder(http.StatusServiceUnavailable, "busy").
			Then(httpmock.NewBytesResponder(http.StatusOK, pngBytes)))

	dest := filepath.Join(t.TempDir(), "1001.png")

	assert.Equal(t, OutcomeFailed, fetcher.EnsureCached(context.Background(), iconRemote, dest))
	assert.Equal(t, OutcomeDownloaded, fetcher.EnsureCached(context.Background(), iconRemote, dest))
	assert.FileExists(t, dest)
	assert.Equal(t, 2, transport.GetTotalCallCount())
}

func TestEnsureCached_EmptyRemoteIsSkipped(t *testing.T) {
	t.Parallel()

	fetcher, transport := newTestFetcher(t)
	dest := filepath.Join(t.TempDir(), "Ice.png")

	assert.Equal(t, OutcomeSkipped, fetcher.EnsureCached(context.Background(), "", dest))
	assert.NoFileExists(t, dest)
	assert.Equal(t, 0, transport.GetTotalCallCount())
}

func TestEnsureCached_ConcurrentCallersWriteOnce(t *testing.T) {
	t.Parallel()

	fetcher, transport := newTestFetcher(t)
	transport.RegisterResponder(http.MethodGet, iconURL, httpmock.NewBytesResponder(http.StatusOK, pngBytes))

	dest := filepath.Join(t.TempDir(), "1001.png")

	const callers = 8
	outcomes := make([]Outcome, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Go(func() {
			outcomes[i] = fetcher.EnsureCached(context.Background(), iconRemote, dest)
		})
	}
	wg.Wait()

	downloaded := 0
	for _, o := range outcomes {
		if o == OutcomeDownloaded {
			downloaded++
		} else {
			assert.Equal(t, OutcomeCached, o)
		}
	}
	assert.Equal(t, 1, downloaded)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestEnsureCached_RecordsMetrics(t *testing.T) {
	t.Parallel()

	m, err := metrics.NewImageCacheMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	fetcher, transport := newTestFetcher(t, WithMetrics(m))
	transport.RegisterResponder(http.MethodGet, iconURL, httpmock.NewBytesResponder(http.StatusOK, pngBytes))

	dir := filepath.Join(t.TempDir(), "characters")
	require.NoError(t, os.Mkdir(dir, 0o750))
	dest := filepath.Join(dir, "1001.png")

	fetcher.EnsureCached(context.Background(), iconRemote, dest)
	fetcher.EnsureCached(context.Background(), iconRemote, dest)
	fetcher.EnsureCached(context.Background(), "", dest)

	assert.Equal(t, 3, promtestutil.CollectAndCount(m, "datagen_image_cache_outcomes_total"))
}

func TestOutcome_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "cached", OutcomeCached.String())
	assert.Equal(t, "downloaded", OutcomeDownloaded.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
	assert.Equal(t, "skipped", OutcomeSkipped.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
