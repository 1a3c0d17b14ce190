// Package usecase はマーケットテーブルの同期・ソートのビジネスロジックを実装します。
package usecase

import (
	"crypto_table/internal/feature/market/domain/entity"
)

// TrackedSet は追跡対象のコインIDの集合です。
type TrackedSet map[string]struct{}

// NewTrackedSet はIDリストからTrackedSetを生成します。空文字列は無視します。
func NewTrackedSet(ids []string) TrackedSet {
	set := make(TrackedSet, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// Contains はidが追跡対象かどうかを返します。nilの集合はすべてのIDを受け入れます。
func (s TrackedSet) Contains(id string) bool {
	if s == nil {
		return true
	}
	_, ok := s[id]
	return ok
}

// IDs は集合の要素を返します（順序は不定）。
func (s TrackedSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}

// Merge はスナップショットを前回のCollectionに統合します。
//
// 追跡対象外のIDは無視します。既存の銘柄には観測されたフィールドだけを上書きし、
// 結果が保存済みの銘柄と構造的に異なる場合（または新規の場合）のみ置き換えます。
// スナップショットに含まれない銘柄は削除せず、最後に取得できた値を保持します。
//
// 1件も変化がなければprevと同じポインタを返し、changedは空になります。
// 変化がなかった銘柄は同じ*Coinのまま新しいCollectionに引き継がれます。
func Merge(prev *entity.Collection, snapshot []entity.Observation, tracked TrackedSet) (*entity.Collection, []string) {
	b := entity.NewCollectionBuilder(prev)
	var touched []string
	seen := map[string]bool{}

	for _, obs := range snapshot {
		if obs.ID == "" || !tracked.Contains(obs.ID) {
			continue
		}
		stored, ok := b.Get(obs.ID)
		next := stored.Overlay(obs)
		if ok && next.Equal(stored) {
			continue
		}
		b.Set(next)
		if !seen[obs.ID] {
			seen[obs.ID] = true
			touched = append(touched, obs.ID)
		}
	}

	// 同じIDが複数回現れて最終的にprevの値へ戻った銘柄は変化なしとして扱う
	var changed []string
	for _, id := range touched {
		before, ok := prev.Get(id)
		after, _ := b.Get(id)
		if ok && after.Equal(before) {
			b.Set(before)
			continue
		}
		changed = append(changed, id)
	}
	if len(changed) == 0 {
		return b.Base(), nil
	}
	return b.Build(), changed
}
