package adapters

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"crypto_table/internal/feature/trackedcoins/domain/entity"
	"crypto_table/internal/feature/trackedcoins/usecase"
)

// DefaultTrackedCoins は環境変数が未設定の場合に使う追跡銘柄の対応表です。
const DefaultTrackedCoins = "GOAT=goat,IO=io,ACT=act"

// staticTrackedCoins は設定から読み込んだ固定の対応表を返すリポジトリです。
type staticTrackedCoins struct {
	coins []entity.TrackedCoin
}

var _ usecase.TrackedCoinRepository = (*staticTrackedCoins)(nil)

// NewStaticRepository は固定の追跡銘柄リストを返すリポジトリを生成します。
func NewStaticRepository(coins []entity.TrackedCoin) *staticTrackedCoins {
	return &staticTrackedCoins{coins: slices.Clone(coins)}
}

// ListActive はアクティブな追跡銘柄をsort_key順で返します。
func (r *staticTrackedCoins) ListActive(_ context.Context) ([]entity.TrackedCoin, error) {
	out := make([]entity.TrackedCoin, 0, len(r.coins))
	for _, c := range r.coins {
		if c.IsActive {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b entity.TrackedCoin) int { return a.SortKey - b.SortKey })
	return out, nil
}

// ParseTrackedCoins は "GOAT=goat,IO=io" 形式の文字列を追跡銘柄リストに変換します。
// 記述順がそのままsort_keyになります。
func ParseTrackedCoins(s string) ([]entity.TrackedCoin, error) {
	var coins []entity.TrackedCoin
	seen := map[string]bool{}
	for i, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		symbol, id, ok := strings.Cut(pair, "=")
		symbol, id = strings.TrimSpace(symbol), strings.TrimSpace(id)
		if !ok || symbol == "" || id == "" {
			return nil, fmt.Errorf("invalid tracked coin %q: want SYMBOL=coin-id", pair)
		}
		symbol = strings.ToUpper(symbol)
		if seen[symbol] {
			return nil, fmt.Errorf("duplicate tracked coin symbol %q", symbol)
		}
		seen[symbol] = true
		coins = append(coins, entity.TrackedCoin{
			Symbol:   symbol,
			CoinID:   id,
			IsActive: true,
			SortKey:  i,
		})
	}
	return coins, nil
}
