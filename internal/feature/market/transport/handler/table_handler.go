// Package handler はmarketフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"crypto_table/internal/feature/market/domain/entity"
	"crypto_table/internal/feature/market/transport/http/dto"
	"crypto_table/internal/feature/market/usecase"
)

// TableView はダッシュボード表示の状態を扱うユースケースのインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type TableView interface {
	RowsOf(coll *entity.Collection) (entity.SortDirective, []*entity.Coin)
	RowsWith(coll *entity.Collection, d entity.SortDirective) []*entity.Coin
	Activate(key entity.SortKey) entity.SortDirective
}

// SnapshotProvider は最新のCollectionと同期状態を一貫した組で提供します。
type SnapshotProvider interface {
	Snapshot() (*entity.Collection, usecase.SyncStatus)
}

// UpdateSubscriber は更新通知の購読を提供します。
type UpdateSubscriber interface {
	Subscribe() (<-chan usecase.Update, func())
}

// TableHandler はマーケットテーブルのHTTPリクエストを処理します。
type TableHandler struct {
	view    TableView
	source  SnapshotProvider
	updates UpdateSubscriber
}

// NewTableHandler は新しいTableHandlerを生成します。
func NewTableHandler(view TableView, source SnapshotProvider, updates UpdateSubscriber) *TableHandler {
	return &TableHandler{view: view, source: source, updates: updates}
}

// List は現在のテーブルを返します。
//
// エンドポイント例:
// GET /coins
// GET /coins?sort=market_cap&direction=descending （表示状態を変えずに並べ替え）
func (h *TableHandler) List(c *gin.Context) {
	if c.Query("sort") == "" && c.Query("direction") == "" {
		c.JSON(http.StatusOK, h.table())
		return
	}

	key, err := entity.ParseSortKey(c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dir, err := entity.ParseDirection(c.Query("direction"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d := entity.NewSortDirective(key, dir)
	coll, st := h.source.Snapshot()
	c.JSON(http.StatusOK, dto.NewTable(!st.Loaded, st.Version, d, h.view.RowsWith(coll, d)))
}

// Sort は列ヘッダーのクリックに相当し、ソート指定を遷移させてテーブルを返します。
//
// エンドポイント例:
// POST /coins/sort/current_price
func (h *TableHandler) Sort(c *gin.Context) {
	key, err := entity.ParseSortKey(c.Param("column"))
	if err == nil && key == entity.SortKeyNone {
		err = entity.ErrUnknownSortKey
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.view.Activate(key)
	c.JSON(http.StatusOK, h.table())
}

// Stream はServer-Sent Eventsでテーブルを配信します。
// 接続直後に現在のテーブルを送り、以降は変更が発行されるたびに"table"イベントを送ります。
func (h *TableHandler) Stream(c *gin.Context) {
	sub, unsubscribe := h.updates.Subscribe()
	defer unsubscribe()

	c.Header("Cache-Control", "no-store")
	c.SSEvent("table", h.table())
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case _, ok := <-sub:
			if !ok {
				return false
			}
			c.SSEvent("table", h.table())
			return true
		}
	})
}

// table は同じスナップショットから行と版を組み立てます。
func (h *TableHandler) table() dto.TableResponse {
	coll, st := h.source.Snapshot()
	d, rows := h.view.RowsOf(coll)
	return dto.NewTable(!st.Loaded, st.Version, d, rows)
}

