package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"crypto_table/internal/feature/market/usecase"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "POLL_INTERVAL", "FETCH_TIMEOUT", "SHUTDOWN_TIMEOUT", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadServerConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := LoadServerConfig()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, usecase.DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, usecase.DefaultFetchTimeout, cfg.FetchTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadServerConfig_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("POLL_INTERVAL", "30s")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://dash.example.com ,")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := LoadServerConfig()

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, usecase.SyncConfig{Interval: 30 * time.Second, FetchTimeout: 5 * time.Second}, cfg.SyncConfig())
	assert.Equal(t, []string{"http://localhost:3000", "https://dash.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadServerConfig_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("POLL_INTERVAL", "often")
	t.Setenv("FETCH_TIMEOUT", "-1s")
	t.Setenv("LOG_LEVEL", "loud")

	cfg := LoadServerConfig()

	assert.Equal(t, usecase.DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, usecase.DefaultFetchTimeout, cfg.FetchTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}
