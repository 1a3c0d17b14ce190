package entity

// Collection は追跡中の銘柄をIDで引ける不変の集合です。
// 一度でも観測されたIDだけを保持し、初回観測順（natural order）を記録します。
// 変更はマージ処理が新しいCollectionを作ることでのみ行われます。
type Collection struct {
	coins map[string]*Coin
	order []string
}

// NewCollection は空のCollectionを生成します。
func NewCollection() *Collection {
	return &Collection{coins: map[string]*Coin{}}
}

// Len は保持している銘柄数を返します。
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Get は指定IDの銘柄を返します。
func (c *Collection) Get(id string) (*Coin, bool) {
	if c == nil {
		return nil, false
	}
	coin, ok := c.coins[id]
	return coin, ok
}

// IDs は初回観測順のIDリストのコピーを返します。
func (c *Collection) IDs() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// Values は初回観測順の銘柄リストを返します。返されるスライスは呼び出し側が自由に並べ替えてよい新しいスライスです。
func (c *Collection) Values() []*Coin {
	if c == nil {
		return nil
	}
	out := make([]*Coin, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.coins[id])
	}
	return out
}

// CollectionBuilder はcopy-on-writeで新しいCollectionを組み立てます。
// 最初のSetが呼ばれるまで元のCollectionはコピーされません。
type CollectionBuilder struct {
	base *Collection
	next *Collection
}

// NewCollectionBuilder はbaseを起点とするビルダーを生成します。
func NewCollectionBuilder(base *Collection) *CollectionBuilder {
	if base == nil {
		base = NewCollection()
	}
	return &CollectionBuilder{base: base}
}

// Get は組み立て中の状態から銘柄を返します。
func (b *CollectionBuilder) Get(id string) (*Coin, bool) {
	if b.next != nil {
		return b.next.Get(id)
	}
	return b.base.Get(id)
}

// Set は銘柄を追加または置き換えます。新規IDは末尾に追加されます。
func (b *CollectionBuilder) Set(coin *Coin) {
	if b.next == nil {
		b.next = &Collection{
			coins: make(map[string]*Coin, len(b.base.coins)+1),
			order: append(make([]string, 0, len(b.base.order)+1), b.base.order...),
		}
		for id, c := range b.base.coins {
			b.next.coins[id] = c
		}
	}
	if _, ok := b.next.coins[coin.ID]; !ok {
		b.next.order = append(b.next.order, coin.ID)
	}
	b.next.coins[coin.ID] = coin
}

// Base はビルダーの起点になったCollectionを返します。
func (b *CollectionBuilder) Base() *Collection {
	return b.base
}

// Build は結果を返します。Setが一度も呼ばれなければbaseと同じポインタを返します。
func (b *CollectionBuilder) Build() *Collection {
	if b.next == nil {
		return b.base
	}
	return b.next
}
