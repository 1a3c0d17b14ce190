// Package coingecko はCoinGecko マーケットAPIのクライアントを提供します。
package coingecko

import (
	"os"
	"strconv"
	"time"
)

const (
	defaultBaseURL        = "https://api.coingecko.com/api/v3"
	defaultVsCurrency     = "usd"
	defaultRequestsPerMin = 30
)

// Config holds configuration for the CoinGecko API client.
type Config struct {
	BaseURL        string        // Base URL for the API (e.g., "https://api.coingecko.com/api/v3")
	VsCurrency     string        // Quote currency for prices (e.g., "usd")
	APIKey         string        // Optional demo API key sent as x-cg-demo-api-key
	Timeout        time.Duration // HTTP request timeout
	RequestsPerMin int           // Client-side rate limit
}

// LoadConfig loads CoinGecko configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		BaseURL:        os.Getenv("COINGECKO_BASE_URL"),
		VsCurrency:     os.Getenv("COINGECKO_VS_CURRENCY"),
		APIKey:         os.Getenv("COINGECKO_API_KEY"),
		Timeout:        10 * time.Second,
		RequestsPerMin: defaultRequestsPerMin,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.VsCurrency == "" {
		cfg.VsCurrency = defaultVsCurrency
	}
	if n, err := strconv.Atoi(os.Getenv("COINGECKO_REQUESTS_PER_MIN")); err == nil && n > 0 {
		cfg.RequestsPerMin = n
	}
	return cfg
}
