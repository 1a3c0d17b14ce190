// Package dto defines data transfer objects for the trackedcoins HTTP API.
package dto

// TrackedItem represents a tracked coin in the API response.
type TrackedItem struct {
	Symbol string `json:"symbol"`
	CoinID string `json:"coin_id"`
	Name   string `json:"name"`
}
