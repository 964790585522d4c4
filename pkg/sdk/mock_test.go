package esgrid

import (
	"context"

	"github.com/kailas-cloud/esgrid/internal/domain/grid/request"
	"github.com/kailas-cloud/esgrid/internal/domain/grid/result"
	dominv "github.com/kailas-cloud/esgrid/internal/domain/inventory"
	griduc "github.com/kailas-cloud/esgrid/internal/usecase/grid"
	healthuc "github.com/kailas-cloud/esgrid/internal/usecase/health"
)

type mockGridUC struct {
	queryFn  func(ctx context.Context, req request.Request) (result.Envelope[dominv.Item], error)
	getFn    func(ctx context.Context, id int) (dominv.Item, error)
	createFn func(ctx context.Context, item dominv.Item) (dominv.Item, error)
	updateFn func(ctx context.Context, id int, item dominv.Item) (dominv.Item, error)
	deleteFn func(ctx context.Context, id int) error
	batchFn  func(ctx context.Context, b griduc.Batch) (griduc.BatchResult, error)
}

func (m *mockGridUC) Query(ctx context.Context, req request.Request) (result.Envelope[dominv.Item], error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, req)
	}
	return result.New[dominv.Item](nil, 0, nil), nil
}

func (m *mockGridUC) Get(ctx context.Context, id int) (dominv.Item, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return dominv.Item{}, ErrNotFound
}

func (m *mockGridUC) Create(ctx context.Context, item dominv.Item) (dominv.Item, error) {
	if m.createFn != nil {
		return m.createFn(ctx, item)
	}
	return item, nil
}

func (m *mockGridUC) Update(ctx context.Context, id int, item dominv.Item) (dominv.Item, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, item)
	}
	return item, nil
}

func (m *mockGridUC) Delete(ctx context.Context, id int) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockGridUC) Batch(ctx context.Context, b griduc.Batch) (griduc.BatchResult, error) {
	if m.batchFn != nil {
		return m.batchFn(ctx, b)
	}
	return griduc.BatchResult{}, nil
}

type mockBootstrapUC struct {
	ensureFn func(ctx context.Context) error
}

func (m *mockBootstrapUC) Ensure(ctx context.Context) error {
	if m.ensureFn != nil {
		return m.ensureFn(ctx)
	}
	return nil
}

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }
