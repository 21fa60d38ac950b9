// Package bootstrap builds the long-lived collaborators shared by the server
// and the CLI from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pscheid92/moodmatch/internal/adapter/metrics"
	"github.com/pscheid92/moodmatch/internal/adapter/openai"
	"github.com/pscheid92/moodmatch/internal/adapter/postgres"
	"github.com/pscheid92/moodmatch/internal/adapter/sqlite"
	"github.com/pscheid92/moodmatch/internal/domain"
	"github.com/pscheid92/moodmatch/internal/emotion"
	"github.com/pscheid92/moodmatch/internal/lexicon"
	"github.com/pscheid92/moodmatch/internal/platform/config"
	"github.com/pscheid92/moodmatch/internal/platform/retry"
)

const (
	connectTimeout = 10 * time.Second
	warmUpTimeout  = 30 * time.Second
)

var warmUpPolicy = retry.Policy{
	MaxAttempts:      3,
	InitialBackoff:   500 * time.Millisecond,
	MaxBackoff:       5 * time.Second,
	RateLimitBackoff: 10 * time.Second,
	OnRetry: func(attempt int, err error, backoff time.Duration) {
		slog.Warn("Classifier warm-up failed, retrying", "attempt", attempt, "backoff", backoff, "error", err)
	},
}

// Scorer builds the emotion scorer. When a remote model is configured it is
// probed once; if the probe fails the process runs on the heuristic alone.
func Scorer(ctx context.Context, cfg *config.Config, lex *lexicon.Lexicon, m *metrics.AnalysisMetrics) *emotion.Scorer {
	heuristic := emotion.NewHeuristic(lex)
	cascade := emotion.NewCascade(lex)

	if !cfg.ModelEnabled() {
		slog.Info("No model configured, using heuristic classifier")
		return emotion.NewScorer(nil, heuristic, cascade, m)
	}

	classifier, err := openai.NewClassifier(openai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: cfg.ClassifierTimeout,
	}, m)
	if err != nil {
		slog.Error("Failed to create classifier, using heuristic", "error", err)
		return emotion.NewScorer(nil, heuristic, cascade, m)
	}

	warmCtx, cancel := context.WithTimeout(ctx, warmUpTimeout)
	defer cancel()
	if err := classifier.WarmUp(warmCtx, warmUpPolicy); err != nil {
		slog.Error("Classifier warm-up failed, using heuristic", "classifier", classifier.Name(), "error", err)
		return emotion.NewScorer(nil, heuristic, cascade, m)
	}

	slog.Info("Classifier ready", "classifier", classifier.Name())
	return emotion.NewScorer(classifier, heuristic, cascade, m)
}

// History opens the configured history store: PostgreSQL when DATABASE_URL is
// set, otherwise the SQLite file. The returned func releases it.
func History(ctx context.Context, cfg *config.Config, m *metrics.StoreMetrics) (domain.HistoryRepository, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL, m)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		slog.Info("History store ready", "backend", "postgres")
		return postgres.NewHistoryRepo(pool), pool.Close, nil
	}

	store, err := sqlite.Open(ctx, cfg.SQLitePath, m)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open sqlite history: %w", err)
	}
	slog.Info("History store ready", "backend", "sqlite", "path", cfg.SQLitePath)
	closeStore := func() {
		if err := store.Close(); err != nil {
			slog.Error("Failed to close sqlite history", "error", err)
		}
	}
	return store, closeStore, nil
}
