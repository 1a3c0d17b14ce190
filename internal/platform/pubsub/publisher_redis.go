package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"crypto_table/internal/feature/market/usecase"
)

// UpdateMessage is the JSON payload published on the Redis channel.
type UpdateMessage struct {
	Version uint64    `json:"version"`
	Changed []string  `json:"changed"`
	Coins   int       `json:"coins"`
	At      time.Time `json:"at"`
}

// RedisPublisher announces market updates on a Redis channel so that other
// instances (or external consumers) can refresh without polling CoinGecko themselves.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

var _ usecase.Publisher = (*RedisPublisher)(nil)

// NewRedisPublisher creates a publisher for "<namespace>:updates".
// If namespace is empty, it uses "market".
func NewRedisPublisher(rdb *redis.Client, namespace string) *RedisPublisher {
	if namespace == "" {
		namespace = "market"
	}
	return &RedisPublisher{rdb: rdb, channel: namespace + ":updates"}
}

// Channel returns the Redis channel name.
func (p *RedisPublisher) Channel() string {
	return p.channel
}

// Publish sends the update summary. It is a no-op when Redis is not configured.
func (p *RedisPublisher) Publish(ctx context.Context, u usecase.Update) error {
	if p.rdb == nil {
		return nil
	}
	b, err := json.Marshal(UpdateMessage{
		Version: u.Version,
		Changed: u.Changed,
		Coins:   u.Collection.Len(),
		At:      u.At.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal update: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, b).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", p.channel, err)
	}
	return nil
}
