package usecase

import (
	"slices"
	"sync"

	"crypto_table/internal/feature/market/domain/entity"
)

// CollectionSource は最新のCollectionを提供します（通常はSyncEngine）。
type CollectionSource interface {
	Current() *entity.Collection
}

// TableView は1つのダッシュボード表示の状態（ソート指定）を所有し、表示順を導出します。
// 並び順はCollectionかソート指定が変わったときだけ再計算されます。
type TableView struct {
	source CollectionSource

	mu          sync.Mutex
	directive   entity.SortDirective
	memoColl    *entity.Collection
	memoDir     entity.SortDirective
	memoRows    []*entity.Coin
	derivations int
}

// NewTableView は未ソート状態のTableViewを生成します。
func NewTableView(source CollectionSource) *TableView {
	return &TableView{source: source}
}

// Directive は現在のソート指定を返します。
func (v *TableView) Directive() entity.SortDirective {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.directive
}

// Activate は列ヘッダーのクリックとしてソート指定を遷移させ、新しい指定を返します。
func (v *TableView) Activate(key entity.SortKey) entity.SortDirective {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.directive = v.directive.Activate(key)
	return v.directive
}

// Rows は現在のソート指定で並べた銘柄を返します。
func (v *TableView) Rows() (entity.SortDirective, []*entity.Coin) {
	return v.RowsOf(v.source.Current())
}

// RowsOf は呼び出し側が取得したCollectionを現在のソート指定で並べます。
// 同期状態と組で読んだCollectionを表示する場合に使います。
func (v *TableView) RowsOf(coll *entity.Collection) (entity.SortDirective, []*entity.Coin) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.memoRows == nil || coll != v.memoColl || v.directive != v.memoDir {
		v.memoRows = Sort(coll.Values(), v.directive)
		v.memoColl = coll
		v.memoDir = v.directive
		v.derivations++
	}
	return v.directive, slices.Clone(v.memoRows)
}

// RowsWith は表示状態を変えずに、collを指定されたソート指定で並べた銘柄を返します。
func (v *TableView) RowsWith(coll *entity.Collection, d entity.SortDirective) []*entity.Coin {
	return Sort(coll.Values(), d)
}
