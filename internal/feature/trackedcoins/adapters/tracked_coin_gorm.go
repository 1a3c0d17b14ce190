// Package adapters はtrackedcoinsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"crypto_table/internal/feature/trackedcoins/domain/entity"
	"crypto_table/internal/feature/trackedcoins/usecase"
)

// trackedCoinGorm はTrackedCoinRepositoryインターフェースのgorm実装です。
type trackedCoinGorm struct {
	db *gorm.DB
}

var _ usecase.TrackedCoinRepository = (*trackedCoinGorm)(nil)

// NewTrackedCoinRepository は指定されたDB接続でtrackedCoinGormリポジトリの新しいインスタンスを生成します。
func NewTrackedCoinRepository(db *gorm.DB) *trackedCoinGorm {
	return &trackedCoinGorm{db: db}
}

// ListActive はsort_key順にすべてのアクティブな追跡銘柄を返します。
func (r *trackedCoinGorm) ListActive(ctx context.Context) ([]entity.TrackedCoin, error) {
	var coins []entity.TrackedCoin
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Find(&coins).Error; err != nil {
		return nil, err
	}
	return coins, nil
}

// Seed は追跡銘柄をsymbolをキーに挿入し、既存の行はcoin_id・name・sort_keyだけ更新します。
// is_activeは運用で切り替えるため上書きしません。
func (r *trackedCoinGorm) Seed(ctx context.Context, coins []entity.TrackedCoin) error {
	if len(coins) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}},
			DoUpdates: clause.AssignmentColumns([]string{"coin_id", "name", "sort_key", "updated_at"}),
		}).
		Create(&coins).Error
}
