// Package redis はRedis接続の設定と生成を提供します。
package redis

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config はRedis接続設定です。Hostが空の場合Redisは使いません。
type Config struct {
	Host      string
	Port      string
	Password  string
	DB        int
	Namespace string // キーとチャネルの接頭辞
}

// LoadConfig は環境変数からRedis設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{
		Host:      os.Getenv("REDIS_HOST"),
		Port:      os.Getenv("REDIS_PORT"),
		Password:  os.Getenv("REDIS_PASSWORD"),
		Namespace: os.Getenv("REDIS_NAMESPACE"),
	}
	if cfg.Port == "" {
		cfg.Port = "6379"
	}
	if n, err := strconv.Atoi(os.Getenv("REDIS_DB")); err == nil {
		cfg.DB = n
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "crypto_table"
	}
	return cfg
}

// Enabled はRedisを使う設定かどうかを返します。
func (c Config) Enabled() bool {
	return c.Host != ""
}

// Addr は host:port を返します。
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

// NewRedisClient はRedisクライアントを生成し、接続を確認します。
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 接続確認
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", cfg.Addr(), "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", cfg.Addr())
	return rdb, nil
}
