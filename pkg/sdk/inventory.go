package esgrid

import (
	"context"
	"fmt"
	"time"

	griduc "github.com/kailas-cloud/esgrid/internal/usecase/grid"
)

// InventoryService reads and writes inventory items. Every write is visible
// to queries once the call returns.
type InventoryService struct {
	svc gridUseCase
	obs *observer
}

// Query runs q. A nil q returns the first page in identity order.
func (s *InventoryService) Query(ctx context.Context, q *Query) (page Page, err error) {
	start := time.Now()
	defer func() { s.obs.observe("query", start, err) }()

	if q == nil {
		q = NewQuery()
	}
	req, err := q.build()
	if err != nil {
		return Page{}, fmt.Errorf("query: %w", err)
	}
	env, err := s.svc.Query(ctx, req)
	if err != nil {
		return Page{}, fmt.Errorf("query: %w", err)
	}
	return Page{Items: env.Rows(), Total: env.TotalCount(), Aggregates: env.Aggregates()}, nil
}

// Get returns the item with the given identity.
func (s *InventoryService) Get(ctx context.Context, id int) (item Item, err error) {
	start := time.Now()
	defer func() { s.obs.observe("get", start, err) }()

	item, err = s.svc.Get(ctx, id)
	if err != nil {
		return Item{}, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// Create stores a new item. An item without a positive ItemID gets one assigned.
func (s *InventoryService) Create(ctx context.Context, item Item) (stored Item, err error) {
	start := time.Now()
	defer func() { s.obs.observe("create", start, err) }()

	stored, err = s.svc.Create(ctx, item)
	if err != nil {
		return Item{}, fmt.Errorf("create item: %w", err)
	}
	return stored, nil
}

// Update replaces the item stored under id.
func (s *InventoryService) Update(ctx context.Context, id int, item Item) (stored Item, err error) {
	start := time.Now()
	defer func() { s.obs.observe("update", start, err) }()

	stored, err = s.svc.Update(ctx, id, item)
	if err != nil {
		return Item{}, fmt.Errorf("update item: %w", err)
	}
	return stored, nil
}

// Delete removes an item. Deleting a missing item succeeds.
func (s *InventoryService) Delete(ctx context.Context, id int) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("delete", start, err) }()

	if err = s.svc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// Batch applies adds, changes and deletes with a single refresh. Rows fail
// individually; see BatchResult.Failed.
func (s *InventoryService) Batch(
	ctx context.Context, added, changed []Item, deleted []int,
) (res BatchResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("batch", start, err) }()

	out, err := s.svc.Batch(ctx, griduc.Batch{Added: added, Changed: changed, Deleted: deleted})
	if err != nil {
		return BatchResult{}, fmt.Errorf("batch: %w", err)
	}
	return BatchResult{
		Added:   out.Added,
		Changed: out.Changed,
		Deleted: out.Deleted,
		Items:   fromBulk(out.Results),
	}, nil
}
