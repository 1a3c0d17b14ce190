// Package router はHTTPルーティングを定義します。
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	markethandler "crypto_table/internal/feature/market/transport/handler"
	trackedhandler "crypto_table/internal/feature/trackedcoins/transport/handler"
	platformhandler "crypto_table/internal/platform/http/handler"
)

// NewRouter はすべてのエンドポイントを登録したgin.Engineを生成します。
// allowedOriginsが空の場合はすべてのオリジンを許可します。
func NewRouter(health *platformhandler.HealthHandler, table *markethandler.TableHandler,
	tracked *trackedhandler.TrackedHandler, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// ダッシュボード（ブラウザ）から直接呼ばれるためCORSを許可
	corsCfg := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = allowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// 導通確認用
	r.GET("/healthz", health.Live)
	r.HEAD("/healthz", health.Live)
	r.GET("/readyz", health.Ready)

	// 追跡銘柄の一覧
	r.GET("/tracked", tracked.List)

	coins := r.Group("/coins")
	{
		coins.GET("", table.List)
		coins.POST("/sort/:column", table.Sort)
		coins.GET("/stream", table.Stream)
	}

	return r
}
