package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"crypto_table/internal/app/config"
	"crypto_table/internal/app/di"
	"crypto_table/internal/app/router"
	markethandler "crypto_table/internal/feature/market/transport/handler"
	marketusecase "crypto_table/internal/feature/market/usecase"
	trackedhandler "crypto_table/internal/feature/trackedcoins/transport/handler"
	trackedusecase "crypto_table/internal/feature/trackedcoins/usecase"
	infradb "crypto_table/internal/platform/db"
	platformhandler "crypto_table/internal/platform/http/handler"
	"crypto_table/internal/platform/pubsub"
	infraredis "crypto_table/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg := config.LoadServerConfig()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func run(ctx context.Context, cfg config.ServerConfig) error {
	// db（任意）: 未設定なら固定の追跡銘柄リストを使う
	var db *gorm.DB
	if dbCfg := infradb.LoadConfigFromEnv(); dbCfg.Enabled() {
		var err error
		if db, err = infradb.OpenDB(dbCfg); err != nil {
			return fmt.Errorf("open database: %w", err)
		}
	}

	// Redis（任意）
	redisCfg := infraredis.LoadConfig()
	var rdb *redisv9.Client
	if redisCfg.Enabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, redisCfg); err != nil {
			slog.Warn("Redis unavailable. Running without cache and update fan-out.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// 追跡銘柄
	coins, err := di.LoadTrackedCoins()
	if err != nil {
		return err
	}
	trackedRepo, err := di.NewTrackedCoinRepository(ctx, db, rdb, redisCfg.Namespace, coins)
	if err != nil {
		return err
	}
	trackedUC := trackedusecase.NewTrackedUsecase(trackedRepo)
	ids, err := trackedUC.ActiveCoinIDs(ctx)
	if err != nil {
		return err
	}

	// 変更通知の配信先
	hub := pubsub.NewHub()
	publishers := []marketusecase.Publisher{hub}
	if rdb != nil {
		publishers = append(publishers, pubsub.NewRedisPublisher(rdb, redisCfg.Namespace))
	}

	// Usecase
	engine, err := marketusecase.NewSyncEngine(di.NewMarketFeed(), ids, cfg.SyncConfig(), publishers...)
	if err != nil {
		return err
	}
	view := marketusecase.NewTableView(engine)

	// Handler
	healthH := platformhandler.NewHealthHandler(engine)
	tableH := markethandler.NewTableHandler(view, engine, hub)
	trackedH := trackedhandler.NewTrackedHandler(trackedUC)

	// ルータ生成
	r := router.NewRouter(healthH, tableH, trackedH, cfg.AllowedOrigins)

	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		// シャットダウン時にSSE接続のリクエストコンテキストもキャンセルする
		BaseContext: func(net.Listener) context.Context { return gctx },
	}

	poller := engine.Start(gctx)
	defer poller.Stop()
	slog.Info("market sync started", "coins", ids, "interval", cfg.PollInterval)

	g.Go(func() error {
		return superviseSync(gctx, poller.Done())
	})
	g.Go(func() error {
		slog.Info("HTTP server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

var errSyncLoopExited = errors.New("market sync loop exited unexpectedly")

// superviseSync は同期ループの終了を待ちます。ctxが生きている間にループが止まった場合は
// エラーを返し、errgroup経由でサーバー全体を停止させます。
func superviseSync(ctx context.Context, done <-chan struct{}) error {
	<-done
	if ctx.Err() == nil {
		return errSyncLoopExited
	}
	return nil
}
