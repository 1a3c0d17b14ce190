// Package usecase implements the business logic for the tracked coin list.
package usecase

import (
	"context"
	"errors"
	"fmt"

	"crypto_table/internal/feature/trackedcoins/domain/entity"
)

// ErrNoActiveCoins is returned when no active tracked coin is configured.
var ErrNoActiveCoins = errors.New("no active tracked coins")

// TrackedCoinRepository abstracts the source of the symbol-to-id lookup table.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type TrackedCoinRepository interface {
	ListActive(ctx context.Context) ([]entity.TrackedCoin, error)
}

// TrackedUsecase provides business logic for tracked coins.
type TrackedUsecase struct {
	repo TrackedCoinRepository
}

// NewTrackedUsecase creates a new TrackedUsecase with the given repository.
func NewTrackedUsecase(r TrackedCoinRepository) *TrackedUsecase {
	return &TrackedUsecase{repo: r}
}

// ListActive returns all active tracked coins in display order.
func (u *TrackedUsecase) ListActive(ctx context.Context) ([]entity.TrackedCoin, error) {
	return u.repo.ListActive(ctx)
}

// ActiveCoinIDs returns the CoinGecko ids to poll, de-duplicated, in display order.
func (u *TrackedUsecase) ActiveCoinIDs(ctx context.Context) ([]string, error) {
	coins, err := u.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tracked coins: %w", err)
	}

	ids := make([]string, 0, len(coins))
	seen := map[string]bool{}
	for _, c := range coins {
		if c.CoinID == "" || seen[c.CoinID] {
			continue
		}
		seen[c.CoinID] = true
		ids = append(ids, c.CoinID)
	}
	if len(ids) == 0 {
		return nil, ErrNoActiveCoins
	}
	return ids, nil
}
