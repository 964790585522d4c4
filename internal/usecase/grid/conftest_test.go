package grid

import (
	"context"
	"sort"
	"sync"

	"github.com/kailas-cloud/esgrid/internal/db"
	"github.com/kailas-cloud/esgrid/internal/domain"
	"github.com/kailas-cloud/esgrid/internal/domain/grid/request"
	"github.com/kailas-cloud/esgrid/internal/domain/grid/result"
	dominv "github.com/kailas-cloud/esgrid/internal/domain/inventory"
)

// mockRepo implements Repository with overridable functions.
type mockRepo struct {
	queryFn   func(ctx context.Context, req *request.Request) (result.Envelope[dominv.Item], error)
	getFn     func(ctx context.Context, id int) (dominv.Item, error)
	insertFn  func(ctx context.Context, item *dominv.Item) error
	saveFn    func(ctx context.Context, item *dominv.Item) error
	deleteFn  func(ctx context.Context, id int) error
	refreshFn func(ctx context.Context) error
	maxIDFn   func(ctx context.Context) (int64, error)

	refreshes int
}

func (m *mockRepo) Query(ctx context.Context, req *request.Request) (result.Envelope[dominv.Item], error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, req)
	}
	return result.New[dominv.Item](nil, 0, nil), nil
}

func (m *mockRepo) Get(ctx context.Context, id int) (dominv.Item, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return dominv.Item{}, domain.ErrNotFound
}

func (m *mockRepo) Insert(ctx context.Context, item *dominv.Item) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, item)
	}
	return nil
}

func (m *mockRepo) Save(ctx context.Context, item *dominv.Item) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, item)
	}
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id int) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockRepo) Refresh(ctx context.Context) error {
	m.refreshes++
	if m.refreshFn != nil {
		return m.refreshFn(ctx)
	}
	return nil
}

func (m *mockRepo) MaxID(ctx context.Context) (int64, error) {
	if m.maxIDFn != nil {
		return m.maxIDFn(ctx)
	}
	return 0, nil
}

// seqStub is a deterministic in-process sequence.
type seqStub struct {
	mu    sync.Mutex
	cur   int64
	calls int
	err   error
}

func (s *seqStub) Next(_ context.Context, _ string, floor int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	s.cur = max(s.cur, floor) + 1
	return s.cur, nil
}

// nrtRepo models a near-real-time index: writes become searchable only after Refresh.
type nrtRepo struct {
	mu      sync.Mutex
	stored  map[int]dominv.Item
	visible map[int]dominv.Item
}

func newNRTRepo(items ...dominv.Item) *nrtRepo {
	r := &nrtRepo{stored: map[int]dominv.Item{}, visible: map[int]dominv.Item{}}
	for _, it := range items {
		r.stored[it.ItemID] = it
		r.visible[it.ItemID] = it
	}
	return r
}

func (r *nrtRepo) Query(_ context.Context, req *request.Request) (result.Envelope[dominv.Item], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := make([]dominv.Item, 0, len(r.visible))
	for _, it := range r.visible {
		rows = append(rows, it)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ItemID < rows[j].ItemID })
	total := int64(len(rows))
	if req.Skip() < len(rows) {
		rows = rows[req.Skip():]
	} else {
		rows = nil
	}
	if req.Take() < len(rows) {
		rows = rows[:req.Take()]
	}
	return result.New(rows, total, nil), nil
}

func (r *nrtRepo) Get(_ context.Context, id int) (dominv.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.visible[id]
	if !ok {
		return dominv.Item{}, domain.ErrNotFound
	}
	return it, nil
}

func (r *nrtRepo) Insert(_ context.Context, item *dominv.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stored[item.ItemID]; ok {
		return &db.Error{Op: db.OpIndex, Err: db.ErrConflict}
	}
	r.stored[item.ItemID] = *item
	return nil
}

func (r *nrtRepo) Save(_ context.Context, item *dominv.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored[item.ItemID] = *item
	return nil
}

func (r *nrtRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stored, id)
	return nil
}

func (r *nrtRepo) Refresh(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visible = make(map[int]dominv.Item, len(r.stored))
	for id, it := range r.stored {
		r.visible[id] = it
	}
	return nil
}

// MaxID reads the searchable view, like the engine's max aggregation.
func (r *nrtRepo) MaxID(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var m int64
	for id := range r.visible {
		m = max(m, int64(id))
	}
	return m, nil
}

func validItem(id int) dominv.Item {
	return dominv.Item{
		ItemID:          id,
		SKU:             "SKU-TEST",
		ItemName:        "Desk Lamp LED",
		Category:        "Furniture",
		UnitPrice:       19.99,
		QuantityInStock: 10,
		Status:          "Active",
	}
}

func mustRequest(skip, take int) request.Request {
	req, err := request.New(skip, take, nil, nil, nil, nil, true)
	if err != nil {
		panic(err)
	}
	return req
}
