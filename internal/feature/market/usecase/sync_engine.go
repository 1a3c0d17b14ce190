package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"crypto_table/internal/feature/market/domain/entity"
)

const (
	// DefaultPollInterval はスナップショット取得の周期です。
	DefaultPollInterval = 10 * time.Second
	// DefaultFetchTimeout は1回のスナップショット取得に許す最大時間です。
	DefaultFetchTimeout = 8 * time.Second
)

// ErrSyncInProgress は前回の取得がまだ完了していないため今回の同期をスキップしたことを示します。
var ErrSyncInProgress = errors.New("market sync already in progress")

// MarketFeed は外部APIから現在のマーケットスナップショットを取得します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type MarketFeed interface {
	FetchSnapshot(ctx context.Context, ids []string) ([]entity.Observation, error)
}

// Update は1件以上の銘柄が変化したときに発行される通知です。
type Update struct {
	Version    uint64
	Collection *entity.Collection
	Changed    []string
	At         time.Time
}

// Publisher は変更通知の配信先です。
type Publisher interface {
	Publish(ctx context.Context, u Update) error
}

// SyncConfig はSyncEngineのポーリング設定です。
type SyncConfig struct {
	Interval     time.Duration
	FetchTimeout time.Duration
}

// SyncStatus は同期ループの状態のスナップショットです。
type SyncStatus struct {
	Loaded              bool      // 一度でも取得に成功したか
	Version             uint64    // 発行済みCollectionのバージョン
	Coins               int       // 現在のCollectionの銘柄数
	LastSuccess         time.Time // 最後に取得に成功した時刻
	LastError           string    // 最後の取得エラー（成功すると空になる）
	ConsecutiveFailures int       // 連続失敗回数
}

// SyncEngine は正準のCollectionを所有し、定期的にスナップショットを取得してマージします。
// Collectionを書き換えるのはSyncだけで、読み手は不変のCollectionをCurrentで受け取ります。
type SyncEngine struct {
	feed       MarketFeed
	ids        []string
	tracked    TrackedSet
	cfg        SyncConfig
	publishers []Publisher
	now        func() time.Time

	inflight sync.Mutex
	current  atomic.Pointer[entity.Collection]

	mu     sync.RWMutex
	status SyncStatus
}

// NewSyncEngine は新しいSyncEngineを生成します。追跡IDが空の場合はErrNoTrackedCoinsを返します。
func NewSyncEngine(feed MarketFeed, ids []string, cfg SyncConfig, publishers ...Publisher) (*SyncEngine, error) {
	tracked := NewTrackedSet(ids)
	if len(tracked) == 0 {
		return nil, entity.ErrNoTrackedCoins
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}

	// 重複を除きつつ設定順を保つ
	ordered := make([]string, 0, len(tracked))
	seen := map[string]bool{}
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ordered = append(ordered, id)
	}

	e := &SyncEngine{
		feed:       feed,
		ids:        ordered,
		tracked:    tracked,
		cfg:        cfg,
		publishers: publishers,
		now:        time.Now,
	}
	e.current.Store(entity.NewCollection())
	return e, nil
}

// Current は最新の発行済みCollectionを返します。変化がない限り同じポインタが返ります。
func (e *SyncEngine) Current() *entity.Collection {
	return e.current.Load()
}

// Status は同期状態を返します。
func (e *SyncEngine) Status() SyncStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

// Snapshot は最新のCollectionと、それに対応する同期状態を一貫した組で返します。
func (e *SyncEngine) Snapshot() (*entity.Collection, SyncStatus) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current.Load(), e.status
}

// TrackedIDs は追跡対象のIDを設定順で返します。
func (e *SyncEngine) TrackedIDs() []string {
	return append([]string(nil), e.ids...)
}

// Sync はスナップショットを1回取得してマージします。
//
// 取得中に別のSyncが呼ばれた場合はErrSyncInProgressを返して何もしません。
// 取得の完了前にctxがキャンセルされた場合、結果は破棄されCollectionは変更されません。
// 取得に失敗した場合もCollectionは変更されず、エラーが返されます。
func (e *SyncEngine) Sync(ctx context.Context) error {
	if !e.inflight.TryLock() {
		return ErrSyncInProgress
	}
	defer e.inflight.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	snapshot, err := e.feed.FetchSnapshot(fetchCtx, e.ids)
	cancel()

	if ctx.Err() != nil {
		slog.Debug("discarding market snapshot after cancellation", "error", ctx.Err())
		return ctx.Err()
	}
	if err != nil {
		e.recordFailure(err)
		return err
	}

	prev := e.current.Load()
	next, changed := Merge(prev, snapshot, e.tracked)
	if len(changed) == 0 {
		e.recordSuccess(nil)
		return nil
	}

	version := e.recordSuccess(next)
	slog.Info("market snapshot merged", "version", version, "changed", len(changed), "coins", next.Len())

	u := Update{Version: version, Collection: next, Changed: changed, At: e.now()}
	for _, p := range e.publishers {
		if err := p.Publish(ctx, u); err != nil {
			slog.Warn("failed to publish market update", "version", version, "error", err)
		}
	}
	return nil
}

// Start は即座に1回同期し、その後は前回の完了からInterval経過ごとに同期するループを開始します。
// 返されたPollerのStopでループを止めるまで動き続けます。個々の失敗でループは止まりません。
func (e *SyncEngine) Start(ctx context.Context) *Poller {
	ctx, cancel := context.WithCancel(ctx)
	p := &Poller{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(p.done)
		defer func() {
			if r := recover(); r != nil {
				slog.Error("market sync loop panic recovered", "panic", r)
			}
		}()

		for {
			if err := e.Sync(ctx); err != nil && ctx.Err() == nil {
				slog.Warn("market sync failed", "error", err)
			}

			timer := time.NewTimer(e.cfg.Interval)
			select {
			case <-ctx.Done():
				timer.Stop()
				slog.Info("market sync loop stopped")
				return
			case <-timer.C:
			}
		}
	}()

	return p
}

// recordSuccess は成功を記録します。nextがnilでなければCollectionを差し替えて版を進めます。
// Collectionの差し替えと版の更新は同じロックの中で行い、Snapshotから一致して見えるようにします。
func (e *SyncEngine) recordSuccess(next *entity.Collection) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if next != nil {
		e.current.Store(next)
		e.status.Version++
	}
	e.status.Loaded = true
	e.status.Coins = e.current.Load().Len()
	e.status.LastSuccess = e.now()
	e.status.LastError = ""
	e.status.ConsecutiveFailures = 0
	return e.status.Version
}

func (e *SyncEngine) recordFailure(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status.LastError = err.Error()
	e.status.ConsecutiveFailures++
}

// Poller は実行中の同期ループのハンドルです。
type Poller struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Stop はループを止め、終了を待ちます。複数回呼んでも安全です。
func (p *Poller) Stop() {
	p.once.Do(p.cancel)
	<-p.done
}

// Done はループが終了すると閉じられるチャネルを返します。
func (p *Poller) Done() <-chan struct{} {
	return p.done
}
