package di

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	trackedadapters "crypto_table/internal/feature/trackedcoins/adapters"
	"crypto_table/internal/feature/trackedcoins/domain/entity"
	"crypto_table/internal/feature/trackedcoins/usecase"
	"crypto_table/internal/platform/cache"
)

// LoadTrackedCoins reads the SYMBOL=coin-id list from TRACKED_COINS,
// falling back to the built-in list.
func LoadTrackedCoins() ([]entity.TrackedCoin, error) {
	raw := os.Getenv("TRACKED_COINS")
	if raw == "" {
		raw = trackedadapters.DefaultTrackedCoins
	}
	coins, err := trackedadapters.ParseTrackedCoins(raw)
	if err != nil {
		return nil, fmt.Errorf("TRACKED_COINS: %w", err)
	}
	return coins, nil
}

// NewTrackedCoinRepository creates a TrackedCoinRepository implementation.
// If a database is available, the table is seeded with coins and the gorm
// repository is returned behind the Redis cache (skipped when rdb is nil).
// Otherwise, it falls back to the static list.
func NewTrackedCoinRepository(ctx context.Context, db *gorm.DB, rdb *redis.Client, namespace string, coins []entity.TrackedCoin) (usecase.TrackedCoinRepository, error) {
	if db == nil {
		slog.Info("using static tracked coin list", "count", len(coins))
		return trackedadapters.NewStaticRepository(coins), nil
	}

	if namespace != "" {
		namespace += ":tracked_coins"
	}
	repo := cache.NewCachingTrackedCoinRepository(rdb, 0, trackedadapters.NewTrackedCoinRepository(db), namespace)
	if err := repo.Seed(ctx, coins); err != nil {
		return nil, fmt.Errorf("seed tracked coins: %w", err)
	}
	return repo, nil
}
