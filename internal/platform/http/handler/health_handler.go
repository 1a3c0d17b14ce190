// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"crypto_table/internal/feature/market/usecase"
)

// SyncStatusProvider はマーケット同期ループの状態を提供します。
type SyncStatusProvider interface {
	Status() usecase.SyncStatus
}

// HealthHandler は /healthz と /readyz を処理します。
type HealthHandler struct {
	sync SyncStatusProvider
}

// NewHealthHandler は新しいHealthHandlerを生成します。
func NewHealthHandler(sync SyncStatusProvider) *HealthHandler {
	return &HealthHandler{sync: sync}
}

// Live はプロセスの生存確認用の /healthz エンドポイントを処理します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
func (h *HealthHandler) Live(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Ready は /readyz エンドポイントを処理します。
// 一度もスナップショットの取得に成功していない間は503（loading）を返します。
// 取得失敗が続いていても、最後に取得できたデータを配信できるため200を返します。
func (h *HealthHandler) Ready(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	st := h.sync.Status()
	body := gin.H{
		"status":               "ready",
		"version":              st.Version,
		"coins":                st.Coins,
		"consecutive_failures": st.ConsecutiveFailures,
	}
	if !st.LastSuccess.IsZero() {
		body["last_success"] = st.LastSuccess.UTC().Format(time.RFC3339)
	}
	if st.LastError != "" {
		body["last_error"] = st.LastError
	}

	if !st.Loaded {
		body["status"] = "loading"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, body)
}
