package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "database.db", cfg.SQLitePath)
	assert.Equal(t, 10*time.Minute, cfg.ResultCacheTTL)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, 10*time.Second, cfg.ClassifierTimeout)
	assert.Equal(t, 10, cfg.HistoryPageSize)
	assert.Zero(t, cfg.HistoryRetention)
	assert.Equal(t, "@daily", cfg.HistoryPruneSchedule)
	assert.Equal(t, 5.0, cfg.RateLimitPerSecond)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
	assert.False(t, cfg.ModelEnabled())
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost/moodmatch")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("HISTORY_RETENTION", "720h")
	t.Setenv("HISTORY_PRUNE_SCHEDULE", "0 3 * * *")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "postgres://localhost/moodmatch", cfg.DatabaseURL)
	assert.True(t, cfg.ModelEnabled())
	assert.Equal(t, 720*time.Hour, cfg.HistoryRetention)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"port not numeric", map[string]string{"PORT": "http"}, `PORT must be a number between 1 and 65535, got "http"`},
		{"port out of range", map[string]string{"PORT": "70000"}, `PORT must be a number between 1 and 65535, got "70000"`},
		{"log format", map[string]string{"LOG_FORMAT": "xml"}, `LOG_FORMAT must be "text" or "json", got "xml"`},
		{"cache ttl", map[string]string{"RESULT_CACHE_TTL": "0s"}, "RESULT_CACHE_TTL must be positive"},
		{"base url", map[string]string{"OPENAI_BASE_URL": "not a url"}, `OPENAI_BASE_URL must be an absolute URL, got "not a url"`},
		{"timeout", map[string]string{"CLASSIFIER_TIMEOUT": "0s"}, "CLASSIFIER_TIMEOUT must be positive"},
		{"page size", map[string]string{"HISTORY_PAGE_SIZE": "0"}, "HISTORY_PAGE_SIZE must be between 1 and 100, got 0"},
		{"negative retention", map[string]string{"HISTORY_RETENTION": "-1h"}, "HISTORY_RETENTION must not be negative"},
		{"rate", map[string]string{"RATE_LIMIT_PER_SECOND": "0"}, "RATE_LIMIT_PER_SECOND must be positive"},
		{"burst", map[string]string{"RATE_LIMIT_BURST": "0"}, "RATE_LIMIT_BURST must be at least 1"},
		{"origins", map[string]string{"CORS_ALLOW_ORIGINS": " , "}, "CORS_ALLOW_ORIGINS must name at least one origin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestLoad_InvalidPruneScheduleOnlyWithRetention(t *testing.T) {
	t.Setenv("HISTORY_PRUNE_SCHEDULE", "whenever")

	_, err := Load()
	require.NoError(t, err)

	t.Setenv("HISTORY_RETENTION", "24h")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HISTORY_PRUNE_SCHEDULE is invalid")
}

func TestValidate_RequiresHistoryStore(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.SQLitePath = ""
	assert.EqualError(t, validate(cfg), "either DATABASE_URL or SQLITE_PATH is required")

	cfg.DatabaseURL = "postgres://localhost/moodmatch"
	assert.NoError(t, validate(cfg))
}
