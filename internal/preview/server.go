// Package preview serves a built dataset and its icon tree over HTTP so the
// game front-end can be pointed at a local copy.
package preview

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hsrdle/datagen/internal/errors"
	"github.com/hsrdle/datagen/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// Config holds the preview server inputs.
type Config struct {
	Listen    string
	DataPath  string       // dataset artifact, served at /data.json
	AssetsDir string       // icon root, served under /assets/
	Metrics   http.Handler // optional, served at /metrics
}

// Server is the preview HTTP server.
type Server struct {
	Echo *echo.Echo
	cfg  Config
}

// New builds the server and registers its routes.
func New(cfg Config) *Server {
	s := &Server{Echo: echo.New(), cfg: cfg}
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.Logger = newEchoLogger(GetLogger().Module("echo"))
	s.configureMiddleware()
	s.initRoutes()
	return s
}

func (s *Server) configureMiddleware() {
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodHead},
	}))
	s.setupRequestLogger()
}

// setupRequestLogger logs each request at a level derived from its status.
func (s *Server) setupRequestLogger() {
	httpLogger := GetLogger().Module("request")

	s.Echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logMethod := httpLogger.Debug
			switch {
			case v.Status >= 500:
				logMethod = httpLogger.Error
			case v.Status >= 400:
				logMethod = httpLogger.Warn
			}

			fields := []logger.Field{
				logger.String("method", v.Method),
				logger.String("uri", v.URI),
				logger.Int("status", v.Status),
				logger.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, logger.Error(v.Error))
			}

			logMethod(fmt.Sprintf("%s %s %d", v.Method, v.URI, v.Status), fields...)
			return nil
		},
	}))
}

func (s *Server) initRoutes() {
	s.Echo.GET("/data.json", s.serveDataset)
	s.Echo.Static("/assets", s.cfg.AssetsDir)
	s.Echo.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.cfg.Metrics != nil {
		s.Echo.GET("/metrics", echo.WrapHandler(s.cfg.Metrics))
	}
}

// serveDataset returns the artifact uncached, since every build replaces it.
func (s *Server) serveDataset(c echo.Context) error {
	if _, err := os.Stat(s.cfg.DataPath); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "dataset has not been built yet")
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	return c.File(s.cfg.DataPath)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	log := GetLogger()
	errCh := make(chan error, 1)

	go func() {
		log.Info("preview server listening",
			logger.String("listen", s.cfg.Listen),
			logger.String("data", s.cfg.DataPath),
			logger.String("assets", s.cfg.AssetsDir))
		errCh <- s.Echo.Start(s.cfg.Listen)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.New(err).
			Component("preview").
			Category(errors.CategoryNetwork).
			Context("listen", s.cfg.Listen).
			Build()
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("preview server shutdown: %w", err)
	}
	<-errCh
	log.Info("preview server stopped")
	return nil
}
