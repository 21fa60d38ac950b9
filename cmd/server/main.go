package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/pscheid92/moodmatch/internal/adapter/httpserver"
	"github.com/pscheid92/moodmatch/internal/adapter/metrics"
	"github.com/pscheid92/moodmatch/internal/adapter/redis"
	"github.com/pscheid92/moodmatch/internal/app"
	"github.com/pscheid92/moodmatch/internal/bootstrap"
	"github.com/pscheid92/moodmatch/internal/domain"
	"github.com/pscheid92/moodmatch/internal/lexicon"
	"github.com/pscheid92/moodmatch/internal/platform/config"
	"github.com/pscheid92/moodmatch/internal/platform/logging"
	"github.com/pscheid92/moodmatch/internal/platform/version"
)

func runGracefulShutdown(srv *httpserver.Server, retention *app.Retention) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		if retention != nil {
			retention.Stop()
		}

		close(done)
	}()

	return done
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupRedis(ctx context.Context, cfg *config.Config) *goredis.Client {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := redis.Connect(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func main() {
	clock := clockwork.NewRealClock()
	ctx := context.Background()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", version.Get().String())

	reg := metrics.NewRegistry()
	analysisMetrics := metrics.NewAnalysisMetrics(reg)
	historyMetrics := metrics.NewHistoryMetrics(reg)
	cacheMetrics := metrics.NewCacheMetrics(reg)
	storeMetrics := metrics.NewStoreMetrics(reg)

	lex, err := lexicon.Default()
	if err != nil {
		slog.Error("Failed to load lexicon", "error", err)
		os.Exit(1)
	}

	scorer := bootstrap.Scorer(ctx, cfg, lex, analysisMetrics)

	history, closeHistory, err := bootstrap.History(ctx, cfg, storeMetrics)
	if err != nil {
		slog.Error("Failed to open history store", "error", err)
		os.Exit(1)
	}
	defer closeHistory()

	healthChecks := []httpserver.HealthCheck{
		{Name: "history", Check: history.Ping},
	}

	// Pass nil explicitly when there is no cache to avoid a typed-nil interface
	var cache domain.ResultCache
	if cfg.RedisURL != "" {
		redisClient := setupRedis(ctx, cfg)
		defer func() { _ = redisClient.Close() }()
		redis.Instrument(redisClient, metrics.NewRedisMetrics(reg))

		resultCache := redis.NewResultCache(redisClient, cfg.ResultCacheTTL, clock, cacheMetrics)
		cache = resultCache
		healthChecks = append(healthChecks, httpserver.HealthCheck{Name: "cache", Check: resultCache.Ping})
	}

	appSvc := app.NewService(app.Deps{
		Lexicon:         lex,
		Scorer:          scorer,
		History:         history,
		Cache:           cache,
		Clock:           clock,
		AnalysisMetrics: analysisMetrics,
		HistoryMetrics:  historyMetrics,
		CacheMetrics:    cacheMetrics,
	})

	var retention *app.Retention
	if cfg.HistoryRetention > 0 {
		retention = app.NewRetention(history, cfg.HistoryRetention, clock, historyMetrics)
		if err := retention.Start(ctx, cfg.HistoryPruneSchedule); err != nil {
			slog.Error("Failed to schedule history retention", "error", err)
			os.Exit(1)
		}
	}

	srv := httpserver.NewServer(cfg, appSvc, reg, healthChecks)

	done := runGracefulShutdown(srv, retention)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
