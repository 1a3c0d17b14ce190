package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSortKey はテーブルの列として存在しないソートキーが指定されたことを示します。
	ErrUnknownSortKey = errors.New("unknown sort key")
	// ErrUnknownDirection は未知のソート方向が指定されたことを示します。
	ErrUnknownDirection = errors.New("unknown sort direction")
)

// SortKey はソート可能な列を表します。文字列値はAPIのワイヤー名と一致します。
type SortKey string

const (
	SortKeyNone                  SortKey = ""
	SortKeyName                  SortKey = "name"
	SortKeyCurrentPrice          SortKey = "current_price"
	SortKeyMarketCap             SortKey = "market_cap"
	SortKeyMarketCapChangePct24h SortKey = "market_cap_change_percentage_24h"
	SortKeyPriceChangePct24h     SortKey = "price_change_percentage_24h"
)

// SortKeys はテーブルに表示する順のソート可能列です。
var SortKeys = []SortKey{
	SortKeyName,
	SortKeyCurrentPrice,
	SortKeyMarketCap,
	SortKeyMarketCapChangePct24h,
	SortKeyPriceChangePct24h,
}

// ParseSortKey はワイヤー名をSortKeyに変換します。空文字列はSortKeyNoneです。
func ParseSortKey(s string) (SortKey, error) {
	if s == "" || s == "none" {
		return SortKeyNone, nil
	}
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return SortKeyNone, fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

// Direction はソート方向です。
type Direction string

const (
	DirectionNone       Direction = ""
	DirectionAscending  Direction = "ascending"
	DirectionDescending Direction = "descending"
)

// ParseDirection はワイヤー名をDirectionに変換します。"asc"/"desc"も受け付けます。
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "none":
		return DirectionNone, nil
	case "ascending", "asc":
		return DirectionAscending, nil
	case "descending", "desc":
		return DirectionDescending, nil
	}
	return DirectionNone, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// SortIcon は列ヘッダーに表示するソート状態です。
type SortIcon string

const (
	SortIconNeutral    SortIcon = "neutral"
	SortIconAscending  SortIcon = "ascending"
	SortIconDescending SortIcon = "descending"
)

// SortDirective はテーブルの並び順を決めるキーと方向の組です。
// ゼロ値は未ソート状態 {none, none} です。
type SortDirective struct {
	Key       SortKey
	Direction Direction
}

// NewSortDirective はキーと方向を検証してSortDirectiveを生成します。
// キーがnoneなら方向もnoneになり、キーだけ指定された場合は昇順になります。
func NewSortDirective(key SortKey, dir Direction) SortDirective {
	if key == SortKeyNone {
		return SortDirective{}
	}
	if dir == DirectionNone {
		dir = DirectionAscending
	}
	return SortDirective{Key: key, Direction: dir}
}

// Sorted は列が選択されているかを返します。
func (d SortDirective) Sorted() bool {
	return d.Key != SortKeyNone
}

// Activate は列ヘッダーのクリックに相当する状態遷移です。
//
//   - 未ソート、または別の列でソート中 → その列の昇順
//   - 同じ列の昇順 → 降順
//   - 同じ列の降順 → 昇順（未ソートには戻らない）
func (d SortDirective) Activate(key SortKey) SortDirective {
	if key == SortKeyNone {
		return d
	}
	if d.Key != key {
		return SortDirective{Key: key, Direction: DirectionAscending}
	}
	if d.Direction == DirectionAscending {
		return SortDirective{Key: key, Direction: DirectionDescending}
	}
	return SortDirective{Key: key, Direction: DirectionAscending}
}

// IconFor は指定列のヘッダーアイコンを返します。
func (d SortDirective) IconFor(key SortKey) SortIcon {
	if d.Key != key || key == SortKeyNone {
		return SortIconNeutral
	}
	if d.Direction == DirectionDescending {
		return SortIconDescending
	}
	return SortIconAscending
}
