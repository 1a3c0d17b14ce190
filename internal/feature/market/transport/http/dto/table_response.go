// Package dto defines data transfer objects for the market table HTTP API.
package dto

import (
	"crypto_table/internal/feature/market/domain/entity"
)

// columnLabels はテーブルヘッダーの表示名です。
var columnLabels = map[entity.SortKey]string{
	entity.SortKeyName:                  "Agent",
	entity.SortKeyCurrentPrice:          "Price",
	entity.SortKeyMarketCap:             "Marketcap",
	entity.SortKeyMarketCapChangePct24h: "Marketcap Change 24h",
	entity.SortKeyPriceChangePct24h:     "% Change 24h",
}

// RowResponse はテーブル1行分のレスポンスDTOです。
// 数値フィールドは未観測の場合nullになり、*_displayは"unknown"になります。
type RowResponse struct {
	ID                           string   `json:"id"`
	Name                         string   `json:"name"`
	Image                        string   `json:"image"`
	CurrentPrice                 *float64 `json:"current_price"`
	CurrentPriceDisplay          string   `json:"current_price_display"`
	MarketCap                    *float64 `json:"market_cap"`
	MarketCapDisplay             string   `json:"market_cap_display"`
	MarketCapChangePct24h        *float64 `json:"market_cap_change_percentage_24h"`
	MarketCapChangePct24hDisplay string   `json:"market_cap_change_percentage_24h_display"`
	MarketCapChangePct24hTrend   Trend    `json:"market_cap_change_percentage_24h_trend"`
	PriceChangePct24h            *float64 `json:"price_change_percentage_24h"`
	PriceChangePct24hDisplay     string   `json:"price_change_percentage_24h_display"`
	PriceChangePct24hTrend       Trend    `json:"price_change_percentage_24h_trend"`
}

// ColumnResponse はソート可能な列ヘッダーです。
type ColumnResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Icon  string `json:"icon"` // neutral / ascending / descending
}

// SortResponse は現在のソート指定です。未ソートの場合はどちらも"none"です。
type SortResponse struct {
	Key       string `json:"key"`
	Direction string `json:"direction"`
}

// TableResponse はテーブル全体のレスポンスDTOです。
type TableResponse struct {
	Loading bool             `json:"loading"`
	Version uint64           `json:"version"`
	Sort    SortResponse     `json:"sort"`
	Columns []ColumnResponse `json:"columns"`
	Rows    []RowResponse    `json:"rows"`
}

// NewRow は銘柄を表示用の行に変換します。
func NewRow(c *entity.Coin) RowResponse {
	return RowResponse{
		ID:                           c.ID,
		Name:                         c.Name,
		Image:                        c.Image,
		CurrentPrice:                 c.CurrentPrice,
		CurrentPriceDisplay:          FormatPrice(c.CurrentPrice),
		MarketCap:                    c.MarketCap,
		MarketCapDisplay:             FormatMarketCap(c.MarketCap),
		MarketCapChangePct24h:        c.MarketCapChangePct24h,
		MarketCapChangePct24hDisplay: FormatPercent(c.MarketCapChangePct24h),
		MarketCapChangePct24hTrend:   TrendOf(c.MarketCapChangePct24h),
		PriceChangePct24h:            c.PriceChangePct24h,
		PriceChangePct24hDisplay:     FormatPercent(c.PriceChangePct24h),
		PriceChangePct24hTrend:       TrendOf(c.PriceChangePct24h),
	}
}

// NewTable はソート済みの銘柄とソート指定からレスポンスを組み立てます。
func NewTable(loading bool, version uint64, d entity.SortDirective, coins []*entity.Coin) TableResponse {
	cols := make([]ColumnResponse, 0, len(entity.SortKeys))
	for _, k := range entity.SortKeys {
		cols = append(cols, ColumnResponse{
			Key:   string(k),
			Label: columnLabels[k],
			Icon:  string(d.IconFor(k)),
		})
	}

	rows := make([]RowResponse, 0, len(coins))
	for _, c := range coins {
		rows = append(rows, NewRow(c))
	}

	return TableResponse{
		Loading: loading,
		Version: version,
		Sort:    sortResponse(d),
		Columns: cols,
		Rows:    rows,
	}
}

func sortResponse(d entity.SortDirective) SortResponse {
	key, dir := string(d.Key), string(d.Direction)
	if key == "" {
		key = "none"
	}
	if dir == "" {
		dir = "none"
	}
	return SortResponse{Key: key, Direction: dir}
}
