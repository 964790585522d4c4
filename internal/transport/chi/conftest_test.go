package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esgrid/internal/db"
	"github.com/kailas-cloud/esgrid/internal/db/local"
	"github.com/kailas-cloud/esgrid/internal/domain"
	"github.com/kailas-cloud/esgrid/internal/domain/grid/request"
	"github.com/kailas-cloud/esgrid/internal/domain/grid/result"
	dominv "github.com/kailas-cloud/esgrid/internal/domain/inventory"
	"github.com/kailas-cloud/esgrid/internal/domain/stock"
	griduc "github.com/kailas-cloud/esgrid/internal/usecase/grid"
	healthuc "github.com/kailas-cloud/esgrid/internal/usecase/health"
	tickeruc "github.com/kailas-cloud/esgrid/internal/usecase/ticker"
)

// memRepo is an in-memory grid.Repository.
type memRepo struct {
	mu        sync.Mutex
	items     map[int]dominv.Item
	lastQuery *request.Request
	queryErr  error
	aggs      map[string]float64
	refreshes int
}

func newMemRepo(items ...dominv.Item) *memRepo {
	m := &memRepo{items: make(map[int]dominv.Item)}
	for _, it := range items {
		m.items[it.ItemID] = it
	}
	return m
}

func (m *memRepo) Query(_ context.Context, req *request.Request) (result.Envelope[dominv.Item], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQuery = req
	if m.queryErr != nil {
		return result.Envelope[dominv.Item]{}, m.queryErr
	}

	rows := make([]dominv.Item, 0, len(m.items))
	for _, it := range m.items {
		rows = append(rows, it)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ItemID < rows[j].ItemID })
	total := int64(len(rows))

	skip := min(req.Skip(), len(rows))
	rows = rows[skip:]
	if req.Take() < len(rows) {
		rows = rows[:req.Take()]
	}
	return result.New(rows, total, m.aggs), nil
}

func (m *memRepo) Get(_ context.Context, id int) (dominv.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return dominv.Item{}, domain.ErrNotFound
	}
	return it, nil
}

func (m *memRepo) Insert(_ context.Context, item *dominv.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.ItemID]; ok {
		return &db.Error{Op: db.OpIndex, Err: db.ErrConflict}
	}
	m.items[item.ItemID] = *item
	return nil
}

func (m *memRepo) Save(_ context.Context, item *dominv.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ItemID] = *item
	return nil
}

func (m *memRepo) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *memRepo) Refresh(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshes++
	return nil
}

func (m *memRepo) MaxID(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var maxID int
	for id := range m.items {
		maxID = max(maxID, id)
	}
	return int64(maxID), nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type testServer struct {
	handler http.Handler
	repo    *memRepo
	ticker  *tickeruc.Service
}

func newTestServer(t *testing.T, items ...dominv.Item) *testServer {
	t.Helper()
	repo := newMemRepo(items...)
	grid := griduc.New(repo, local.NewCounter(), "esgrid:seq:test").WithLimits(100, 10000)
	ticker := tickeruc.New(stock.NewBook(1, 4, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)), 5*time.Millisecond).
		WithBufferSize(64)
	health := healthuc.New(stubPinger{})

	srv := NewServer(grid, ticker, health, zap.NewNop())
	r := chi.NewRouter()
	srv.Routes(r)
	return &testServer{handler: r, repo: repo, ticker: ticker}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			if err := json.NewEncoder(&buf).Encode(b); err != nil {
				t.Fatalf("encode body: %v", err)
			}
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response (%d): %v", rr.Code, err)
	}
	return v
}

func widget(id int) dominv.Item {
	return dominv.Item{
		ItemID:          id,
		SKU:             "SKU-001",
		ItemName:        "Widget",
		Category:        "Hardware",
		Supplier:        "Acme",
		UnitPrice:       9.99,
		QuantityInStock: 10,
		ReorderLevel:    5,
		ReorderQuantity: 20,
		Warehouse:       "North",
		Status:          "Active",
	}
}
