// Package dto defines data transfer objects for the CoinGecko API responses.
package dto

// MarketItem is one element of the /coins/markets response.
// Numeric fields are pointers because CoinGecko sends null for coins without data.
// Fields not listed here are dropped by the decoder.
type MarketItem struct {
	ID                           string   `json:"id"`
	Symbol                       string   `json:"symbol"`
	Name                         string   `json:"name"`
	Image                        string   `json:"image"`
	CurrentPrice                 *float64 `json:"current_price"`
	MarketCap                    *float64 `json:"market_cap"`
	MarketCapChangePercentage24h *float64 `json:"market_cap_change_percentage_24h"`
	PriceChangePercentage24h     *float64 `json:"price_change_percentage_24h"`
}

// MarketsResponse is the JSON array returned by /coins/markets.
type MarketsResponse []MarketItem
