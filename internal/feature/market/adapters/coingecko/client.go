package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"crypto_table/internal/feature/market/adapters/coingecko/dto"
	"crypto_table/internal/feature/market/domain/entity"
	"crypto_table/internal/feature/market/usecase"
)

// Limiter はAPI呼び出しの頻度を制限します。
type Limiter interface {
	Wait(ctx context.Context) error
}

// Client はCoinGecko外部APIからマーケットスナップショットを取得するMarketFeed実装です。
type Client struct {
	cfg     Config
	client  *http.Client
	limiter Limiter
}

// ClientがMarketFeedを実装していることをコンパイル時に検証します。
var _ usecase.MarketFeed = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
// limiterがnilの場合はレート制限を行いません。
func NewClient(cfg Config, client *http.Client, limiter Limiter) *Client {
	return &Client{cfg: cfg, client: client, limiter: limiter}
}

// FetchSnapshot は指定されたコインIDの現在のマーケットデータを取得します。
//
// 通信失敗・2xx以外のステータスは*entity.FetchError、
// ボディのデコード失敗は*entity.ParseErrorとして返します。
func (c *Client) FetchSnapshot(ctx context.Context, ids []string) ([]entity.Observation, error) {
	if len(ids) == 0 {
		return nil, entity.ErrNoTrackedCoins
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &entity.FetchError{Err: fmt.Errorf("rate limiter: %w", err)}
		}
	}

	q := url.Values{}
	q.Set("vs_currency", c.cfg.VsCurrency)
	q.Set("ids", strings.Join(ids, ","))

	// URLを生成
	u := fmt.Sprintf("%s/coins/markets?%s", strings.TrimRight(c.cfg.BaseURL, "/"), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &entity.FetchError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.cfg.APIKey)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, &entity.FetchError{Err: err}
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &entity.FetchError{Status: res.StatusCode}
	}

	// JSONレスポンスをDTOにデコード
	var body dto.MarketsResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, &entity.ParseError{Err: err}
	}

	out := make([]entity.Observation, 0, len(body))
	for _, item := range body {
		if item.ID == "" {
			slog.Warn("skipping market item without id", "symbol", item.Symbol)
			continue
		}
		out = append(out, entity.Observation{
			ID:                    item.ID,
			Name:                  item.Name,
			Image:                 item.Image,
			CurrentPrice:          item.CurrentPrice,
			MarketCap:             item.MarketCap,
			MarketCapChangePct24h: item.MarketCapChangePercentage24h,
			PriceChangePct24h:     item.PriceChangePercentage24h,
		})
	}
	return out, nil
}
