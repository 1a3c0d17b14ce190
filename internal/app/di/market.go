// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"crypto_table/internal/feature/market/adapters/coingecko"
	infrahttp "crypto_table/internal/platform/http"
	"crypto_table/internal/shared/ratelimiter"
)

// NewMarketFeed creates a fully configured CoinGecko client with HTTP client and rate limiter.
func NewMarketFeed() *coingecko.Client {
	cfg := coingecko.LoadConfig()
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	limiter := ratelimiter.NewRateLimiter("coingecko", cfg.RequestsPerMin, time.Minute)
	return coingecko.NewClient(cfg, httpClient, limiter)
}
