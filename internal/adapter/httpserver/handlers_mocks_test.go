package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pscheid92/moodmatch/internal/app"
	"github.com/pscheid92/moodmatch/internal/domain"
	"github.com/pscheid92/moodmatch/internal/platform/config"
)

// --- Mock implementations ---

type mockAppService struct {
	analyzeFn          func(ctx context.Context, text string) (*domain.AnalysisResult, error)
	historyFn          func(ctx context.Context, page, pageSize int) (domain.HistoryPage, error)
	relevanceSamplesFn func(ctx context.Context) []app.RelevanceSampleResult
	modelSamplesFn     func(ctx context.Context) []app.ModelSampleResult
	modelLoaded        bool
	classifier         string
	historyEnabled     bool
}

func (m *mockAppService) Analyze(ctx context.Context, text string) (*domain.AnalysisResult, error) {
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, text)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) History(ctx context.Context, page, pageSize int) (domain.HistoryPage, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, page, pageSize)
	}
	return domain.HistoryPage{}, domain.ErrHistoryUnavailable
}

func (m *mockAppService) RunRelevanceSamples(ctx context.Context) []app.RelevanceSampleResult {
	if m.relevanceSamplesFn != nil {
		return m.relevanceSamplesFn(ctx)
	}
	return nil
}

func (m *mockAppService) RunModelSamples(ctx context.Context) []app.ModelSampleResult {
	if m.modelSamplesFn != nil {
		return m.modelSamplesFn(ctx)
	}
	return nil
}

func (m *mockAppService) ModelStatus() (bool, string) {
	if m.classifier == "" {
		return m.modelLoaded, "heuristic"
	}
	return m.modelLoaded, m.classifier
}

func (m *mockAppService) HistoryEnabled() bool {
	return m.historyEnabled
}

// --- Test helpers ---

func testConfig() *config.Config {
	return &config.Config{
		Port:               "5000",
		HistoryPageSize:    10,
		RateLimitPerSecond: 100,
		RateLimitBurst:     100,
		CORSAllowOrigins:   "*",
	}
}

type serverOptions struct {
	cfg      *config.Config
	registry *prometheus.Registry
	checks   []HealthCheck
}

func withHealthChecks(checks ...HealthCheck) func(*serverOptions) {
	return func(o *serverOptions) {
		o.checks = checks
	}
}

func withConfig(mutate func(*config.Config)) func(*serverOptions) {
	return func(o *serverOptions) {
		mutate(o.cfg)
	}
}

func withRegistry(reg *prometheus.Registry) func(*serverOptions) {
	return func(o *serverOptions) {
		o.registry = reg
	}
}

func newTestServer(t *testing.T, svc appService, opts ...func(*serverOptions)) *Server {
	t.Helper()

	o := &serverOptions{cfg: testConfig()}
	for _, opt := range opts {
		opt(o)
	}
	return NewServer(o.cfg, svc, o.registry, o.checks)
}

// serve runs one request through the full router and middleware stack.
func serve(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func healthOK(_ context.Context) error { return nil }

func healthErr(msg string) func(context.Context) error {
	return func(_ context.Context) error { return errors.New(msg) }
}

var _ http.Handler = (*Server)(nil)
