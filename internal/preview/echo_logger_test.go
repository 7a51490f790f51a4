package preview

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/hsrdle/datagen/internal/logger"
)

func TestEchoLogger_RoutesToModuleLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := newEchoLogger(logger.NewSlogLogger(&buf, logger.LogLevelDebug, time.UTC))

	l.Infof("listening on %s", "127.0.0.1:8080")
	l.Warn("slow client")
	l.Debugj(map[string]any{"route": "/data.json"})

	out := buf.String()
	assert.Contains(t, out, "listening on 127.0.0.1:8080")
	assert.Contains(t, out, "slow client")
	assert.Contains(t, out, "/data.json")
	assert.PanicsWithValue(t, "boom", func() { l.Fatal("boom") })
	assert.Contains(t, buf.String(), "boom")
}

func TestServer_UsesEchoLogger(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t, nil)
	assert.IsType(t, &echoLogger{}, s.Echo.Logger)

	s.Echo.GET("/explode", func(echo.Context) error { panic("handler failed") })
	assert.Equal(t, http.StatusInternalServerError, serve(s, "/explode").Code)
}
