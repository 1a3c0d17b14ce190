package coingecko

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crypto_table/internal/feature/market/domain/entity"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:    baseURL,
		VsCurrency: "usd",
		Timeout:    time.Second,
	}
}

// countingLimiter はWaitの呼び出し回数を数え、errを返します。
type countingLimiter struct {
	calls int
	err   error
}

func (l *countingLimiter) Wait(ctx context.Context) error {
	l.calls++
	return l.err
}

func TestClient_FetchSnapshot_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/markets" {
			t.Errorf("expected path /coins/markets, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("ids"); got != "goat,io,act" {
			t.Errorf("expected ids goat,io,act, got %s", got)
		}
		if got := r.URL.Query().Get("vs_currency"); got != "usd" {
			t.Errorf("expected vs_currency usd, got %s", got)
		}
		if got := r.Header.Get("x-cg-demo-api-key"); got != "demo-key" {
			t.Errorf("expected api key header, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{
				"id": "goat",
				"symbol": "goat",
				"name": "Goatseus Maximus",
				"image": "https://img/goat.png",
				"current_price": 0.5123,
				"market_cap": 512300000,
				"market_cap_change_percentage_24h": 3.2,
				"price_change_percentage_24h": -1.5,
				"total_volume": 99
			},
			{
				"id": "io",
				"symbol": "io",
				"name": "io.net",
				"image": "https://img/io.png",
				"current_price": 2.1,
				"market_cap": null,
				"market_cap_change_percentage_24h": null,
				"price_change_percentage_24h": 0
			}
		]`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.APIKey = "demo-key"
	limiter := &countingLimiter{}
	client := NewClient(cfg, server.Client(), limiter)

	got, err := client.FetchSnapshot(context.Background(), []string{"goat", "io", "act"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limiter.calls != 1 {
		t.Errorf("expected limiter to be called once, got %d", limiter.calls)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(got))
	}

	goat := got[0]
	if goat.ID != "goat" || goat.Name != "Goatseus Maximus" || goat.Image != "https://img/goat.png" {
		t.Errorf("unexpected goat observation: %+v", goat)
	}
	if goat.CurrentPrice == nil || *goat.CurrentPrice != 0.5123 {
		t.Errorf("expected current price 0.5123, got %v", goat.CurrentPrice)
	}
	if goat.PriceChangePct24h == nil || *goat.PriceChangePct24h != -1.5 {
		t.Errorf("expected price change -1.5, got %v", goat.PriceChangePct24h)
	}

	io := got[1]
	if io.MarketCap != nil {
		t.Errorf("expected null market cap to stay absent, got %v", *io.MarketCap)
	}
	if io.PriceChangePct24h == nil || *io.PriceChangePct24h != 0 {
		t.Errorf("expected explicit zero price change, got %v", io.PriceChangePct24h)
	}
}

func TestClient_FetchSnapshot_SkipsItemsWithoutID(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"symbol":"x","current_price":1},{"id":"act","current_price":0.3}]`))
	}))
	defer server.Close()

	got, err := NewClient(testConfig(server.URL), server.Client(), nil).
		FetchSnapshot(context.Background(), []string{"act"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "act" {
		t.Errorf("expected only act, got %+v", got)
	}
}

func TestClient_FetchSnapshot_HTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
	}{
		{"rate limited", http.StatusTooManyRequests},
		{"server error", http.StatusInternalServerError},
		{"not found", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			}))
			defer server.Close()

			_, err := NewClient(testConfig(server.URL), server.Client(), nil).
				FetchSnapshot(context.Background(), []string{"goat"})

			var fe *entity.FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FetchError, got %v", err)
			}
			if fe.Status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, fe.Status)
			}
		})
	}
}

func TestClient_FetchSnapshot_InvalidJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"`))
	}))
	defer server.Close()

	_, err := NewClient(testConfig(server.URL), server.Client(), nil).
		FetchSnapshot(context.Background(), []string{"goat"})

	var pe *entity.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestClient_FetchSnapshot_NetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(testConfig(url), &http.Client{Timeout: time.Second}, nil).
		FetchSnapshot(context.Background(), []string{"goat"})

	var fe *entity.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Status != 0 {
		t.Errorf("expected status 0 for transport failure, got %d", fe.Status)
	}
}

func TestClient_FetchSnapshot_ContextCanceled(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewClient(testConfig(server.URL), server.Client(), nil).FetchSnapshot(ctx, []string{"goat"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestClient_FetchSnapshot_NoIDs(t *testing.T) {
	t.Parallel()

	limiter := &countingLimiter{}
	_, err := NewClient(testConfig("http://unused"), http.DefaultClient, limiter).
		FetchSnapshot(context.Background(), nil)
	if !errors.Is(err, entity.ErrNoTrackedCoins) {
		t.Errorf("expected ErrNoTrackedCoins, got %v", err)
	}
	if limiter.calls != 0 {
		t.Errorf("limiter should not be consulted without ids")
	}
}

func TestClient_FetchSnapshot_LimiterError(t *testing.T) {
	t.Parallel()

	limiter := &countingLimiter{err: context.Canceled}
	_, err := NewClient(testConfig("http://unused"), http.DefaultClient, limiter).
		FetchSnapshot(context.Background(), []string{"goat"})

	var fe *entity.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected wrapped context.Canceled, got %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("COINGECKO_BASE_URL", "")
	t.Setenv("COINGECKO_VS_CURRENCY", "")
	t.Setenv("COINGECKO_API_KEY", "")
	t.Setenv("COINGECKO_REQUESTS_PER_MIN", "")

	cfg := LoadConfig()
	if cfg.BaseURL != defaultBaseURL || cfg.VsCurrency != "usd" || cfg.RequestsPerMin != defaultRequestsPerMin {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	t.Setenv("COINGECKO_VS_CURRENCY", "eur")
	t.Setenv("COINGECKO_REQUESTS_PER_MIN", "5")
	cfg = LoadConfig()
	if cfg.VsCurrency != "eur" || cfg.RequestsPerMin != 5 {
		t.Errorf("unexpected env config: %+v", cfg)
	}
}
