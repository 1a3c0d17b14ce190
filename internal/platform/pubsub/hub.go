// Package pubsub はマーケット更新通知の配信先（プロセス内ハブとRedisチャネル）を提供します。
package pubsub

import (
	"context"
	"sync"

	"crypto_table/internal/feature/market/usecase"
)

// Hub はプロセス内の購読者（SSE接続など）へ更新通知を配るPublisherです。
// 各購読者は最新の通知だけを保持し、遅い購読者が同期ループを止めることはありません。
type Hub struct {
	mu   sync.RWMutex
	subs map[chan usecase.Update]struct{}
}

var _ usecase.Publisher = (*Hub)(nil)

// NewHub は購読者のいないHubを生成します。
func NewHub() *Hub {
	return &Hub{subs: map[chan usecase.Update]struct{}{}}
}

// Subscribe は更新通知を受け取るチャネルと、購読を解除する関数を返します。
func (h *Hub) Subscribe() (<-chan usecase.Update, func()) {
	ch := make(chan usecase.Update, 1)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
		})
	}
}

// Subscribers は現在の購読者数を返します。
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish はすべての購読者に通知を送ります。未読の古い通知は新しい通知で置き換えます。
func (h *Hub) Publish(_ context.Context, u usecase.Update) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- u:
		default:
			// 未読の通知を捨てて最新を入れる
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- u:
			default:
			}
		}
	}
	return nil
}
