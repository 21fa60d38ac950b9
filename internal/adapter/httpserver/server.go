package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pscheid92/moodmatch/internal/adapter/metrics"
	"github.com/pscheid92/moodmatch/internal/app"
	"github.com/pscheid92/moodmatch/internal/domain"
	"github.com/pscheid92/moodmatch/internal/platform/config"
)

type appService interface {
	Analyze(ctx context.Context, text string) (*domain.AnalysisResult, error)
	History(ctx context.Context, page, pageSize int) (domain.HistoryPage, error)
	RunRelevanceSamples(ctx context.Context) []app.RelevanceSampleResult
	RunModelSamples(ctx context.Context) []app.ModelSampleResult
	ModelStatus() (loaded bool, classifier string)
	HistoryEnabled() bool
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app            appService
	httpMetrics    *metrics.HTTPMetrics
	metricsHandler http.Handler
	healthChecks   []HealthCheck
	startTime      time.Time
}

// NewServer builds the HTTP server. reg may be nil, which disables request
// metrics and the /metrics endpoint.
func NewServer(cfg *config.Config, app appService, reg *prometheus.Registry, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		config:       cfg,
		app:          app,
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}
	if reg != nil {
		srv.httpMetrics = metrics.NewHTTPMetrics(reg)
		srv.metricsHandler = metrics.Handler(reg)
	}

	e.HTTPErrorHandler = srv.handleHTTPError
	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// ServeHTTP exposes the router, mainly for tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
