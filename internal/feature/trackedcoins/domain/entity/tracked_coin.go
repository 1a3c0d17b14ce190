// Package entity defines the domain models for the trackedcoins feature.
package entity

import "time"

// TrackedCoin maps a ticker symbol shown to users to the CoinGecko coin id
// used when querying the market feed. Only active rows are polled.
type TrackedCoin struct {
	ID        uint      `gorm:"primaryKey"`
	Symbol    string    `gorm:"size:20;not null;uniqueIndex"`
	CoinID    string    `gorm:"size:100;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null;default:''"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
