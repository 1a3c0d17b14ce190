// Package handler はtrackedcoinsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"crypto_table/internal/feature/trackedcoins/domain/entity"
	"crypto_table/internal/feature/trackedcoins/transport/http/dto"
)

// TrackedUsecase は追跡銘柄に関するユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type TrackedUsecase interface {
	ListActive(ctx context.Context) ([]entity.TrackedCoin, error)
}

// TrackedHandler は追跡銘柄に関するHTTPリクエストを処理します。
type TrackedHandler struct {
	uc TrackedUsecase
}

// NewTrackedHandler は新しい TrackedHandler を作成します。
func NewTrackedHandler(uc TrackedUsecase) *TrackedHandler {
	return &TrackedHandler{uc: uc}
}

// List は追跡中の銘柄の一覧を返すAPIです。
// Usecaseでエラーが発生した場合は500 Internal Server Errorを返します。
func (h *TrackedHandler) List(c *gin.Context) {
	coins, err := h.uc.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.TrackedItem, 0, len(coins))
	for _, tc := range coins {
		out = append(out, dto.TrackedItem{Symbol: tc.Symbol, CoinID: tc.CoinID, Name: tc.Name})
	}
	c.JSON(http.StatusOK, out)
}
