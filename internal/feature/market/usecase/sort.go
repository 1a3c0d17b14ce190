package usecase

import (
	"cmp"
	"slices"
	"strings"

	"crypto_table/internal/feature/market/domain/entity"
)

// comparator は2銘柄を比較します。どちらかの値が未観測の場合は0（等しい）を返します。
type comparator func(a, b *entity.Coin) int

// comparators はソートキーごとの比較関数です。
// 未観測値は端に寄せず「何とでも等しい」と扱います。
var comparators = map[entity.SortKey]comparator{
	entity.SortKeyName: func(a, b *entity.Coin) int {
		return strings.Compare(a.Name, b.Name)
	},
	entity.SortKeyCurrentPrice: func(a, b *entity.Coin) int {
		return compareOptional(a.CurrentPrice, b.CurrentPrice)
	},
	entity.SortKeyMarketCap: func(a, b *entity.Coin) int {
		return compareOptional(a.MarketCap, b.MarketCap)
	},
	entity.SortKeyMarketCapChangePct24h: func(a, b *entity.Coin) int {
		return compareOptional(a.MarketCapChangePct24h, b.MarketCapChangePct24h)
	},
	entity.SortKeyPriceChangePct24h: func(a, b *entity.Coin) int {
		return compareOptional(a.PriceChangePct24h, b.PriceChangePct24h)
	},
}

// Sort はdirectiveに従って並べ替えた新しいスライスを返します。入力スライスは変更しません。
//
// キーがnoneなら入力順のまま返します。ソートは安定で、比較結果が等しい銘柄は
// 方向に関係なく入力での相対順を保ちます。未観測値は何とでも等しいため比較は推移的ではなく、
// 隣接要素の交換だけで並べる挿入ソートを使います。
func Sort(coins []*entity.Coin, d entity.SortDirective) []*entity.Coin {
	out := slices.Clone(coins)
	if out == nil {
		out = []*entity.Coin{}
	}
	compare, ok := comparators[d.Key]
	if !ok {
		return out
	}
	if d.Direction == entity.DirectionDescending {
		asc := compare
		compare = func(a, b *entity.Coin) int { return -asc(a, b) }
	}
	insertionSort(out, compare)
	return out
}

// insertionSort は左隣より厳密に小さい間だけ要素を左へ移動します。
// 等しい要素同士は入れ替わらず、並べ終えた結果に再度適用しても何も動きません。
func insertionSort(coins []*entity.Coin, compare comparator) {
	for i := 1; i < len(coins); i++ {
		for j := i; j > 0 && compare(coins[j], coins[j-1]) < 0; j-- {
			coins[j], coins[j-1] = coins[j-1], coins[j]
		}
	}
}

func compareOptional(a, b *float64) int {
	if a == nil || b == nil {
		return 0
	}
	return cmp.Compare(*a, *b)
}
