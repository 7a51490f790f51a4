package errors

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReporter struct {
	mu       sync.Mutex
	enabled  bool
	reported []*EnhancedError
}

func (r *recordingReporter) IsEnabled() bool { return r.enabled }

func (r *recordingReporter) ReportError(ee *EnhancedError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reported = append(r.reported, ee)
	ee.MarkReported()
}

func TestFastPathNoTelemetry(t *testing.T) {
	SetTelemetryReporter(nil)

	ee := New(fmt.Errorf("test error")).Build()

	assert.Equal(t, "test error", ee.Error())
	assert.Equal(t, ComponentUnknown, ee.GetComponent())
	assert.Equal(t, CategoryGeneric, ee.Category)
	assert.False(t, ee.IsReported())
}

func TestBuildKeepsExplicitFields(t *testing.T) {
	SetTelemetryReporter(nil)

	ee := Newf("fetch %s failed", "characters.json").
		Component("feed").
		Category(CategoryFeed).
		Context("feed", "characters").
		Timing("load_feed", 1500*time.Millisecond).
		Build()

	assert.Equal(t, "fetch characters.json failed", ee.Error())
	assert.Equal(t, "feed", ee.GetComponent())
	assert.Equal(t, "feed", ee.GetCategory())

	ctx := ee.GetContext()
	assert.Equal(t, "characters", ctx["feed"])
	assert.Equal(t, "load_feed", ctx["operation"])
	assert.Equal(t, int64(1500), ctx["duration_ms"])
}

func TestBuildReportsWhenTelemetryActive(t *testing.T) {
	reporter := &recordingReporter{enabled: true}
	SetTelemetryReporter(reporter)
	t.Cleanup(func() { SetTelemetryReporter(nil) })

	ee := New(fmt.Errorf("dial tcp: connection refused")).Build()

	require.Len(t, reporter.reported, 1)
	assert.Same(t, ee, reporter.reported[0])
	assert.Equal(t, CategoryNetwork, ee.Category)
	assert.True(t, ee.IsReported())
}

func TestDisabledReporterKeepsFastPath(t *testing.T) {
	reporter := &recordingReporter{enabled: false}
	SetTelemetryReporter(reporter)
	t.Cleanup(func() { SetTelemetryReporter(nil) })

	_ = New(fmt.Errorf("boom")).Build()

	assert.Empty(t, reporter.reported)
}

func TestIsCategory(t *testing.T) {
	SetTelemetryReporter(nil)

	base := New(fmt.Errorf("no such character")).Category(CategoryNotFound).Build()
	wrapped := fmt.Errorf("resolve: %w", base)

	assert.True(t, IsNotFound(wrapped))
	assert.True(t, IsCategory(wrapped, CategoryNotFound))
	assert.False(t, IsCategory(wrapped, CategoryNetwork))
	assert.False(t, IsNotFound(fmt.Errorf("plain")))
}

func TestDetectCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		component string
		want      ErrorCategory
	}{
		{"timeout", fmt.Errorf("context deadline exceeded"), "wiki", CategoryTimeout},
		{"parse", fmt.Errorf("failed to parse feed"), "feed", CategoryFileParsing},
		{"component fallback wiki", fmt.Errorf("boom"), "wiki", CategoryWikiScrape},
		{"component fallback imagecache", fmt.Errorf("boom"), "imagecache", CategoryImageFetch},
		{"generic", fmt.Errorf("boom"), "dataset", CategoryGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, detectCategory(tt.err, tt.component))
		})
	}
}

func TestGenerateErrorTitle(t *testing.T) {
	t.Parallel()

	ee := &EnhancedError{
		Err:       fmt.Errorf("x"),
		component: "wiki",
		detected:  true,
		Category:  CategoryWikiScrape,
		Context:   map[string]any{"operation": "fetch_attributes"},
	}

	assert.Equal(t, "Wiki Wiki Scrape Error Fetch Attributes", generateErrorTitle(ee))
}

func TestURLScrubbing(t *testing.T) {
	t.Parallel()

	scrubbed := basicURLScrub("Error at https://api.example.com?api_key=secret123&token=abc")
	assert.Equal(t, "Error at https://api.example.com?[REDACTED]", scrubbed)

	scrubbed = basicURLScrub("Config error: api_key=secret123 is invalid")
	assert.Contains(t, scrubbed, "[API_KEY_REDACTED]")

	scrubbed = basicURLScrub("Auth failed with token=abc123 and auth=xyz789")
	assert.False(t, strings.Contains(scrubbed, "abc123") || strings.Contains(scrubbed, "xyz789"),
		"sensitive data still present: %s", scrubbed)
}

func TestInitSentryEmptyDSNDisablesTelemetry(t *testing.T) {
	SetTelemetryReporter(&recordingReporter{enabled: true})

	require.NoError(t, InitSentry("", "test"))
	assert.Nil(t, GetTelemetryReporter())
	assert.False(t, hasActiveReporting.Load())
}

func BenchmarkErrorCreationNoTelemetry(b *testing.B) {
	SetTelemetryReporter(nil)
	b.ReportAllocs()

	for b.Loop() {
		_ = New(fmt.Errorf("test error")).
			Component("dataset").
			Category(CategoryGeneric).
			Build()
	}
}

func TestSentryEventCarriesBuildTime(t *testing.T) {
	SetTelemetryReporter(nil)

	ee := Newf("wiki page for %s returned 502", "Gepard").
		Component("wiki").
		Category(CategoryNetwork).
		Build()

	event := newSentryEvent(ee, "Wiki Network Error", "[network] bad gateway", sentry.LevelWarning)
	assert.Equal(t, ee.GetTimestamp(), event.Timestamp)
	assert.Equal(t, sentry.LevelWarning, event.Level)
	require.Len(t, event.Exception, 1)
	assert.Equal(t, "Wiki Network Error", event.Exception[0].Type)
}
