// Package config はサーバープロセス全体の設定を環境変数から読み込みます。
package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"crypto_table/internal/feature/market/usecase"
)

// ServerConfig はHTTPサーバーと同期ループの設定です。
type ServerConfig struct {
	Addr            string        // 待ち受けアドレス（例: ":8080"）
	PollInterval    time.Duration // スナップショット取得の周期
	FetchTimeout    time.Duration // 1回の取得に許す最大時間
	ShutdownTimeout time.Duration // グレースフルシャットダウンの待ち時間
	AllowedOrigins  []string      // CORSで許可するオリジン。空ならすべて許可
	LogLevel        slog.Level
}

// LoadServerConfig は環境変数からServerConfigを読み込みます。
// 不正な値はログに残してデフォルト値を使います。
func LoadServerConfig() ServerConfig {
	cfg := ServerConfig{
		Addr:            ":8080",
		PollInterval:    durationEnv("POLL_INTERVAL", usecase.DefaultPollInterval),
		FetchTimeout:    durationEnv("FETCH_TIMEOUT", usecase.DefaultFetchTimeout),
		ShutdownTimeout: durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second),
		LogLevel:        slog.LevelInfo,
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	for _, o := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}
	if lv := os.Getenv("LOG_LEVEL"); lv != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(lv)); err != nil {
			slog.Warn("invalid LOG_LEVEL, using info", "value", lv)
			cfg.LogLevel = slog.LevelInfo
		}
	}
	return cfg
}

// SyncConfig は同期ループ用の設定を返します。
func (c ServerConfig) SyncConfig() usecase.SyncConfig {
	return usecase.SyncConfig{Interval: c.PollInterval, FetchTimeout: c.FetchTimeout}
}

func durationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}
