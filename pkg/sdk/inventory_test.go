package esgrid

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/esgrid/internal/domain/bulk"
	"github.com/kailas-cloud/esgrid/internal/domain/grid/request"
	"github.com/kailas-cloud/esgrid/internal/domain/grid/result"
	dominv "github.com/kailas-cloud/esgrid/internal/domain/inventory"
	griduc "github.com/kailas-cloud/esgrid/internal/usecase/grid"
)

// --- Query ---

func TestInventory_Query(t *testing.T) {
	m := &mockGridUC{queryFn: func(_ context.Context, req request.Request) (result.Envelope[dominv.Item], error) {
		if req.Take() != 2 || !req.WantTotalCount() {
			t.Errorf("unexpected request window %d total=%v", req.Take(), req.WantTotalCount())
		}
		return result.New(
			[]dominv.Item{{ItemID: 1001}, {ItemID: 1002}},
			57,
			map[string]float64{"quantityInStock - sum": 1200},
		), nil
	}}

	page, err := newTestClient(t, m).Inventory().Query(context.Background(), NewQuery().Take(2).WithTotal())
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(page.Items) != 2 || page.Total != 57 {
		t.Errorf("page = %d items, total %d", len(page.Items), page.Total)
	}
	if page.Aggregates[AggregateName("quantityInStock", AggSum)] != 1200 {
		t.Errorf("aggregates = %v", page.Aggregates)
	}
}

func TestInventory_QueryNil(t *testing.T) {
	called := false
	m := &mockGridUC{queryFn: func(_ context.Context, req request.Request) (result.Envelope[dominv.Item], error) {
		called = true
		if req.Skip() != 0 || req.Take() != 0 {
			t.Errorf("expected empty window, got %d/%d", req.Skip(), req.Take())
		}
		return result.New[dominv.Item](nil, 0, nil), nil
	}}

	if _, err := newTestClient(t, m).Inventory().Query(context.Background(), nil); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !called {
		t.Error("grid service was not called")
	}
}

func TestInventory_QueryErrors(t *testing.T) {
	m := &mockGridUC{queryFn: func(_ context.Context, _ request.Request) (result.Envelope[dominv.Item], error) {
		return result.Envelope[dominv.Item]{}, ErrUnknownField
	}}
	inv := newTestClient(t, m).Inventory()

	if _, err := inv.Query(context.Background(), NewQuery()); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
	if _, err := inv.Query(context.Background(), NewQuery().Skip(-1)); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

// --- Single item ---

func TestInventory_Get(t *testing.T) {
	tests := []struct {
		name    string
		getFn   func(context.Context, int) (dominv.Item, error)
		wantErr error
	}{
		{
			name: "found",
			getFn: func(_ context.Context, id int) (dominv.Item, error) {
				return dominv.Item{ItemID: id, SKU: "SKU-001005"}, nil
			},
		},
		{
			name: "missing",
			getFn: func(_ context.Context, _ int) (dominv.Item, error) {
				return dominv.Item{}, ErrNotFound
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := newTestClient(t, &mockGridUC{getFn: tt.getFn}).Inventory()
			item, err := inv.Get(context.Background(), 1005)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if item.ItemID != 1005 {
				t.Errorf("itemId = %d", item.ItemID)
			}
		})
	}
}

func TestInventory_CreateUpdateDelete(t *testing.T) {
	var deleted int
	m := &mockGridUC{
		createFn: func(_ context.Context, item dominv.Item) (dominv.Item, error) {
			if item.ItemID == 0 {
				item.ItemID = 1001
			}
			return item, nil
		},
		updateFn: func(_ context.Context, id int, item dominv.Item) (dominv.Item, error) {
			item.ItemID = id
			return item, nil
		},
		deleteFn: func(_ context.Context, id int) error {
			deleted = id
			return nil
		},
	}
	inv := newTestClient(t, m).Inventory()
	ctx := context.Background()

	created, err := inv.Create(ctx, Item{SKU: "SKU-NEW", ItemName: "Gadget"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ItemID != 1001 {
		t.Errorf("created itemId = %d", created.ItemID)
	}

	updated, err := inv.Update(ctx, 1001, Item{SKU: "SKU-NEW", ItemName: "Gadget Pro"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ItemID != 1001 || updated.ItemName != "Gadget Pro" {
		t.Errorf("updated = %+v", updated)
	}

	if err := inv.Delete(ctx, 1001); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted != 1001 {
		t.Errorf("deleted id = %d", deleted)
	}
}

func TestInventory_CreateConflict(t *testing.T) {
	m := &mockGridUC{createFn: func(_ context.Context, _ dominv.Item) (dominv.Item, error) {
		return dominv.Item{}, ErrAlreadyExists
	}}
	_, err := newTestClient(t, m).Inventory().Create(context.Background(), Item{ItemID: 7})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

// --- Batch ---

func TestInventory_Batch(t *testing.T) {
	rowErr := errors.New("itemId 3 does not match 4")
	m := &mockGridUC{batchFn: func(_ context.Context, b griduc.Batch) (griduc.BatchResult, error) {
		if len(b.Added) != 1 || len(b.Changed) != 1 || len(b.Deleted) != 2 {
			t.Errorf("unexpected batch %+v", b)
		}
		return griduc.BatchResult{
			Added:   []dominv.Item{{ItemID: 1003}},
			Deleted: []int{1001, 1002},
			Results: []bulk.Result{
				bulk.NewOK("1003"),
				bulk.NewError("3", rowErr),
				bulk.NewOK("1001"),
				bulk.NewOK("1002"),
			},
		}, nil
	}}

	res, err := newTestClient(t, m).Inventory().Batch(context.Background(),
		[]Item{{SKU: "SKU-A"}}, []Item{{ItemID: 3}}, []int{1001, 1002})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if len(res.Added) != 1 || len(res.Deleted) != 2 || len(res.Items) != 4 {
		t.Errorf("result = %+v", res)
	}
	failed := res.Failed()
	if len(failed) != 1 || failed[0].ID != "3" || !errors.Is(failed[0].Error, rowErr) {
		t.Errorf("failed = %+v", failed)
	}
}

func TestInventory_BatchError(t *testing.T) {
	m := &mockGridUC{batchFn: func(_ context.Context, _ griduc.Batch) (griduc.BatchResult, error) {
		return griduc.BatchResult{}, ErrInvalidRequest
	}}
	_, err := newTestClient(t, m).Inventory().Batch(context.Background(), nil, nil, nil)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}
