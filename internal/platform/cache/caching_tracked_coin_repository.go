// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"crypto_table/internal/feature/trackedcoins/domain/entity"
	"crypto_table/internal/feature/trackedcoins/usecase"
)

// TrackedCoinStore is the repository being decorated: it lists and seeds tracked coins.
type TrackedCoinStore interface {
	usecase.TrackedCoinRepository
	Seed(ctx context.Context, coins []entity.TrackedCoin) error
}

// CachingTrackedCoinRepository decorates a TrackedCoinStore with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository.
type CachingTrackedCoinRepository struct {
	inner     TrackedCoinStore
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ TrackedCoinStore = (*CachingTrackedCoinRepository)(nil)

// NewCachingTrackedCoinRepository decorates a TrackedCoinStore with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "tracked_coins".
func NewCachingTrackedCoinRepository(rdb *redis.Client, ttl time.Duration, inner TrackedCoinStore, namespace string) *CachingTrackedCoinRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "tracked_coins"
	}
	return &CachingTrackedCoinRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Seed writes to the underlying repository and invalidates the cached list.
func (c *CachingTrackedCoinRepository) Seed(ctx context.Context, coins []entity.TrackedCoin) error {
	if err := c.inner.Seed(ctx, coins); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	_ = c.rdb.Del(ctx, c.cacheKey()).Err() // Best effort: a stale entry expires with the TTL
	return nil
}

// ListActive retrieves the active coins, checking cache first then falling back to the database.
func (c *CachingTrackedCoinRepository) ListActive(ctx context.Context) ([]entity.TrackedCoin, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.ListActive(ctx)
	}

	key := c.cacheKey()

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.TrackedCoin
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// cacheKey returns the key holding the active list.
func (c *CachingTrackedCoinRepository) cacheKey() string {
	return c.namespace + ":active"
}
