package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto_table/internal/feature/market/domain/entity"
	"crypto_table/internal/feature/market/transport/handler"
	"crypto_table/internal/feature/market/transport/http/dto"
	"crypto_table/internal/feature/market/usecase"
)

// staticSource は固定のCollectionを返すCollectionSourceです。
type staticSource struct {
	coll *entity.Collection
}

func (s staticSource) Current() *entity.Collection { return s.coll }

// stubSnapshot は固定のCollectionとSyncStatusを組で返します。
type stubSnapshot struct {
	coll   *entity.Collection
	status usecase.SyncStatus
}

func (s stubSnapshot) Snapshot() (*entity.Collection, usecase.SyncStatus) { return s.coll, s.status }

// stubSubscriber は事前に用意した更新を流してからチャネルを閉じます。
type stubSubscriber struct {
	updates      []usecase.Update
	unsubscribed atomic.Bool
}

func (s *stubSubscriber) Subscribe() (<-chan usecase.Update, func()) {
	ch := make(chan usecase.Update, len(s.updates))
	for _, u := range s.updates {
		ch <- u
	}
	close(ch)
	return ch, func() { s.unsubscribed.Store(true) }
}

func newCollection() *entity.Collection {
	coll, _ := usecase.Merge(nil, []entity.Observation{
		{ID: "goat", Name: "Goatseus", CurrentPrice: entity.Float(0.5), MarketCap: entity.Float(500)},
		{ID: "io", Name: "IO", CurrentPrice: entity.Float(2), MarketCap: entity.Float(300)},
		{ID: "act", Name: "Act", CurrentPrice: entity.Float(0.3), MarketCap: entity.Float(100)},
	}, nil)
	return coll
}

func setupRouter(h *handler.TableHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/coins", h.List)
	r.POST("/coins/sort/:column", h.Sort)
	r.GET("/coins/stream", h.Stream)
	return r
}

func decodeTable(t *testing.T, body io.Reader) dto.TableResponse {
	t.Helper()
	var table dto.TableResponse
	require.NoError(t, json.NewDecoder(body).Decode(&table))
	return table
}

func rowIDs(table dto.TableResponse) []string {
	out := make([]string, 0, len(table.Rows))
	for _, r := range table.Rows {
		out = append(out, r.ID)
	}
	return out
}

func TestTableHandler_List(t *testing.T) {
	coll := newCollection()
	view := usecase.NewTableView(staticSource{coll: coll})
	h := handler.NewTableHandler(view, stubSnapshot{coll, usecase.SyncStatus{Loaded: true, Version: 3}}, &stubSubscriber{})
	router := setupRouter(h)

	tests := []struct {
		name           string
		url            string
		expectedStatus int
		expectedIDs    []string
	}{
		{"natural order", "/coins", http.StatusOK, []string{"goat", "io", "act"}},
		{"query sort ascending", "/coins?sort=market_cap", http.StatusOK, []string{"act", "io", "goat"}},
		{"query sort descending", "/coins?sort=current_price&direction=desc", http.StatusOK, []string{"io", "goat", "act"}},
		{"unknown sort key", "/coins?sort=volume", http.StatusBadRequest, nil},
		{"unknown direction", "/coins?sort=name&direction=up", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				assert.Contains(t, w.Body.String(), `"error"`)
				return
			}
			table := decodeTable(t, w.Body)
			assert.Equal(t, tt.expectedIDs, rowIDs(table))
			assert.Equal(t, uint64(3), table.Version)
			assert.False(t, table.Loading)
		})
	}

	// クエリによる並べ替えは表示状態を変えない
	assert.False(t, view.Directive().Sorted())
}

func TestTableHandler_SortCycles(t *testing.T) {
	coll := newCollection()
	view := usecase.NewTableView(staticSource{coll: coll})
	h := handler.NewTableHandler(view, stubSnapshot{coll, usecase.SyncStatus{Loaded: true}}, &stubSubscriber{})
	router := setupRouter(h)

	post := func(column string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/coins/sort/"+column, nil))
		return w
	}

	w := post("market_cap")
	require.Equal(t, http.StatusOK, w.Code)
	table := decodeTable(t, w.Body)
	assert.Equal(t, dto.SortResponse{Key: "market_cap", Direction: "ascending"}, table.Sort)
	assert.Equal(t, []string{"act", "io", "goat"}, rowIDs(table))

	w = post("market_cap")
	table = decodeTable(t, w.Body)
	assert.Equal(t, "descending", table.Sort.Direction)
	assert.Equal(t, []string{"goat", "io", "act"}, rowIDs(table))

	w = post("market_cap")
	table = decodeTable(t, w.Body)
	assert.Equal(t, "ascending", table.Sort.Direction)

	// GETは現在の表示状態を返す
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/coins", nil))
	assert.Equal(t, "market_cap", decodeTable(t, w.Body).Sort.Key)
}

func TestTableHandler_SortRejectsUnknownColumn(t *testing.T) {
	coll := newCollection()
	view := usecase.NewTableView(staticSource{coll: coll})
	h := handler.NewTableHandler(view, stubSnapshot{coll: coll}, &stubSubscriber{})
	router := setupRouter(h)

	for _, column := range []string{"none", "volume"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/coins/sort/"+column, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, "column %s", column)
	}
	assert.False(t, view.Directive().Sorted())
}

func TestTableHandler_ListWhileLoading(t *testing.T) {
	coll := entity.NewCollection()
	view := usecase.NewTableView(staticSource{coll: coll})
	h := handler.NewTableHandler(view, stubSnapshot{coll: coll}, &stubSubscriber{})
	router := setupRouter(h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/coins", nil))

	require.Equal(t, http.StatusOK, w.Code)
	table := decodeTable(t, w.Body)
	assert.True(t, table.Loading)
	assert.Empty(t, table.Rows)
}

func TestTableHandler_Stream(t *testing.T) {
	coll := newCollection()
	view := usecase.NewTableView(staticSource{coll: coll})
	sub := &stubSubscriber{updates: []usecase.Update{{Version: 1}, {Version: 2}}}
	h := handler.NewTableHandler(view, stubSnapshot{coll, usecase.SyncStatus{Loaded: true}}, sub)

	// SSEはCloseNotifierが必要なため実サーバーで検証する
	server := httptest.NewServer(setupRouter(h))
	defer server.Close()

	res, err := http.Get(server.URL + "/coins/stream")
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/event-stream")
	// 初回 + 更新2件
	assert.Equal(t, 3, strings.Count(string(body), "event:table"))
	assert.Contains(t, string(body), `"id":"goat"`)
	assert.True(t, sub.unsubscribed.Load())
}

func TestTableHandler_RowsAndVersionFromSameSnapshot(t *testing.T) {
	// ビューのCurrentが先に進んでいても、応答は組で読んだスナップショットだけを使う
	ahead, _ := usecase.Merge(newCollection(), []entity.Observation{
		{ID: "btc", Name: "Bitcoin", CurrentPrice: entity.Float(60000)},
	}, nil)
	view := usecase.NewTableView(staticSource{coll: ahead})
	h := handler.NewTableHandler(view, stubSnapshot{newCollection(), usecase.SyncStatus{Loaded: true, Version: 4}}, &stubSubscriber{})
	router := setupRouter(h)

	for _, url := range []string{"/coins", "/coins?sort=name"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))

		require.Equal(t, http.StatusOK, w.Code)
		table := decodeTable(t, w.Body)
		assert.Equal(t, uint64(4), table.Version, url)
		assert.Len(t, table.Rows, 3, url)
		assert.NotContains(t, rowIDs(table), "btc", url)
	}
}
