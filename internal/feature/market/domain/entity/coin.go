// Package entity はmarketフィーチャーのドメインモデルを定義します。
package entity

// Coin は追跡対象の1銘柄の最新の観測値を表します。
// 数値フィールドはnilのとき「未観測」を意味し、0とは区別されます。
// 公開後のCoinは変更してはいけません（差分マージは新しいCoinを生成します）。
type Coin struct {
	ID                    string   // CoinGeckoのコインID（例: "goat"）
	Name                  string   // 表示名
	Image                 string   // アイコン画像のURI
	CurrentPrice          *float64 // 現在価格
	MarketCap             *float64 // 時価総額
	MarketCapChangePct24h *float64 // 時価総額の24時間変化率(%)
	PriceChangePct24h     *float64 // 価格の24時間変化率(%)
}

// Equal はすべてのフィールドを構造的に比較します。
func (c *Coin) Equal(o *Coin) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.ID == o.ID &&
		c.Name == o.Name &&
		c.Image == o.Image &&
		equalOptional(c.CurrentPrice, o.CurrentPrice) &&
		equalOptional(c.MarketCap, o.MarketCap) &&
		equalOptional(c.MarketCapChangePct24h, o.MarketCapChangePct24h) &&
		equalOptional(c.PriceChangePct24h, o.PriceChangePct24h)
}

// Overlay はobsに含まれるフィールドでcを上書きした新しいCoinを返します。
// obsで欠落しているフィールドはcの値が引き継がれます。cがnilの場合はobsのみから生成します。
func (c *Coin) Overlay(obs Observation) *Coin {
	next := &Coin{ID: obs.ID}
	if c != nil {
		*next = *c
	}
	if obs.Name != "" {
		next.Name = obs.Name
	}
	if obs.Image != "" {
		next.Image = obs.Image
	}
	next.CurrentPrice = pick(obs.CurrentPrice, next.CurrentPrice)
	next.MarketCap = pick(obs.MarketCap, next.MarketCap)
	next.MarketCapChangePct24h = pick(obs.MarketCapChangePct24h, next.MarketCapChangePct24h)
	next.PriceChangePct24h = pick(obs.PriceChangePct24h, next.PriceChangePct24h)
	return next
}

// Float は数値リテラルから観測値ポインタを作るヘルパーです。
func Float(v float64) *float64 {
	return &v
}

func pick(observed, stored *float64) *float64 {
	if observed == nil {
		return stored
	}
	v := *observed
	return &v
}

func equalOptional(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
