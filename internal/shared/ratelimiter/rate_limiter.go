// Package ratelimiter はAPI呼び出しなどの操作の頻度を制限します。
package ratelimiter

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter は、一定期間あたりの呼び出し回数を制限するトークンバケットです。
type RateLimiter struct {
	limiter *rate.Limiter
	name    string
}

// NewRateLimiter はinterval あたり limit 回まで許可するRateLimiterを生成します。
// バーストはlimit回まで許可します。limitが0以下の場合は制限しません。
func NewRateLimiter(name string, limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0), name: name}
	}
	every := rate.Every(interval / time.Duration(limit))
	return &RateLimiter{limiter: rate.NewLimiter(every, limit), name: name}
}

// Wait は呼び出しが許可されるまで待機します。ctxがキャンセルされるとエラーを返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	r := rl.limiter.Reserve()
	if !r.OK() {
		return rl.limiter.Wait(ctx)
	}
	delay := r.Delay()
	if delay == 0 {
		return nil
	}

	slog.Info("rate limit reached, waiting", "limiter", rl.name, "delay", delay)
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}
