package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"5000"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// DatabaseURL selects Postgres for history; SQLitePath is used when it is empty.
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" default:"database.db"`

	RedisURL       string        `env:"REDIS_URL"`
	ResultCacheTTL time.Duration `env:"RESULT_CACHE_TTL" default:"10m"`

	OpenAIAPIKey      string        `env:"OPENAI_API_KEY"`
	OpenAIModel       string        `env:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL     string        `env:"OPENAI_BASE_URL"`
	ClassifierTimeout time.Duration `env:"CLASSIFIER_TIMEOUT" default:"10s"`

	HistoryPageSize      int           `env:"HISTORY_PAGE_SIZE" default:"10"`
	HistoryRetention     time.Duration `env:"HISTORY_RETENTION" default:"0s"`
	HistoryPruneSchedule string        `env:"HISTORY_PRUNE_SCHEDULE" default:"@daily"`

	RateLimitPerSecond float64 `env:"RATE_LIMIT_PER_SECOND" default:"5"`
	RateLimitBurst     int     `env:"RATE_LIMIT_BURST" default:"10"`
	CORSAllowOrigins   string  `env:"CORS_ALLOW_ORIGINS" default:"*"`
}

// ModelEnabled reports whether the remote classifier is configured.
func (c *Config) ModelEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// AllowedOrigins splits CORS_ALLOW_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", cfg.Port)
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\", got %q", cfg.LogFormat)
	}

	if cfg.DatabaseURL == "" && cfg.SQLitePath == "" {
		return errors.New("either DATABASE_URL or SQLITE_PATH is required")
	}

	if cfg.RedisURL != "" {
		if _, err := url.Parse(cfg.RedisURL); err != nil {
			return fmt.Errorf("REDIS_URL is not a valid URL: %w", err)
		}
	}
	if cfg.ResultCacheTTL <= 0 {
		return errors.New("RESULT_CACHE_TTL must be positive")
	}

	if cfg.OpenAIBaseURL != "" {
		if u, err := url.Parse(cfg.OpenAIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("OPENAI_BASE_URL must be an absolute URL, got %q", cfg.OpenAIBaseURL)
		}
	}
	if cfg.ClassifierTimeout <= 0 {
		return errors.New("CLASSIFIER_TIMEOUT must be positive")
	}

	if cfg.HistoryPageSize < 1 || cfg.HistoryPageSize > 100 {
		return fmt.Errorf("HISTORY_PAGE_SIZE must be between 1 and 100, got %d", cfg.HistoryPageSize)
	}
	if cfg.HistoryRetention < 0 {
		return errors.New("HISTORY_RETENTION must not be negative")
	}
	if cfg.HistoryRetention > 0 {
		if _, err := cron.ParseStandard(cfg.HistoryPruneSchedule); err != nil {
			return fmt.Errorf("HISTORY_PRUNE_SCHEDULE is invalid: %w", err)
		}
	}

	if cfg.RateLimitPerSecond <= 0 {
		return errors.New("RATE_LIMIT_PER_SECOND must be positive")
	}
	if cfg.RateLimitBurst < 1 {
		return errors.New("RATE_LIMIT_BURST must be at least 1")
	}
	if len(cfg.AllowedOrigins()) == 0 {
		return errors.New("CORS_ALLOW_ORIGINS must name at least one origin")
	}

	return nil
}
