package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsrdle/datagen/internal/buildinfo"
)

// isolate resets global viper state and runs the test in an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd, cleanup := RootCommand(buildinfo.NewContext("1.2.3", "2026-10-19", "deadbeef"))
	t.Cleanup(cleanup)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "datagen 1.2.3 (commit deadbeef, built 2026-10-19"))
}

func TestInvalidLocaleFlagFailsValidation(t *testing.T) {
	isolate(t)

	_, err := execute(t, "build", "--locale", "English")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locale")
}

// upstream serves a one-character feed set, its icons and a wiki page.
func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/res/index_new/en/characters.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"1002": {"id": "1002", "name": "Dan Heng", "rarity": 4, "path": "Rogue", "element": "Wind", "icon": "icon/character/1002.png"}}`))
	})
	mux.HandleFunc("/res/index_new/en/paths.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Rogue": {"id": "Rogue", "text": "The Hunt", "icon": "icon/path/Hunt.png"}}`))
	})
	mux.HandleFunc("/res/index_new/en/elements.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Wind": {"id": "Wind", "name": "Wind", "icon": "icon/element/Wind.png"}}`))
	})
	mux.HandleFunc("/res/icon/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("png"))
	})
	mux.HandleFunc("/wiki/Dan_Heng", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><aside class="portable-infobox">` +
			`<div class="pi-item"><h3 class="pi-data-label">Species</h3><div class="pi-data-value">Vidyadhara</div></div>` +
			`</aside></body></html>`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestBuildCommand(t *testing.T) {
	dir := isolate(t)
	server := upstream(t)

	t.Setenv("DATAGEN_BASE_URL", server.URL+"/res")
	t.Setenv("DATAGEN_WIKI_BASE_URL", server.URL+"/wiki")
	t.Setenv("DATAGEN_WIKI_RATE_LIMIT", "100")

	out, err := execute(t, "build", "--output", "dataset.json", "--metrics-textfile", "datagen.prom", "--progress")
	require.NoError(t, err)
	assert.Equal(t, "Generated dataset.json with 1 characters.\n", out)

	content, err := os.ReadFile(filepath.Join(dir, "dataset.json")) //nolint:gosec // test file path from t.TempDir()
	require.NoError(t, err)
	assert.Contains(t, string(content), `"name": "Dan Heng"`)
	assert.Contains(t, string(content), `"gender": "Male"`)
	assert.Contains(t, string(content), `"species": "Vidyadhara"`)
	assert.Contains(t, string(content), `"path": "The Hunt"`)

	assert.FileExists(t, filepath.Join(dir, "assets", "characters", "1002.png"))
	assert.FileExists(t, filepath.Join(dir, "assets", "paths", "Rogue.png"))
	assert.FileExists(t, filepath.Join(dir, "assets", "elements", "Wind.png"))

	metrics, err := os.ReadFile(filepath.Join(dir, "datagen.prom")) //nolint:gosec // test file path from t.TempDir()
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "datagen_dataset_records_total 1")
}

func TestBuildCommand_FeedFailure(t *testing.T) {
	isolate(t)
	server := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(server.Close)

	t.Setenv("DATAGEN_BASE_URL", server.URL)

	_, err := execute(t, "build")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "characters feed")
	assert.NoFileExists(t, "data.json")
}
