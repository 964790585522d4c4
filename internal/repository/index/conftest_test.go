package index

import (
	"context"
	"testing"

	"github.com/kailas-cloud/esgrid/internal/db"
	dominv "github.com/kailas-cloud/esgrid/internal/domain/inventory"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	bulkFn        func(ctx context.Context, index string, items []db.BulkItem) ([]db.BulkItemResult, error)
	refreshFn     func(ctx context.Context, index string) error
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) Bulk(ctx context.Context, index string, items []db.BulkItem) ([]db.BulkItemResult, error) {
	if m.bulkFn != nil {
		return m.bulkFn(ctx, index, items)
	}
	out := make([]db.BulkItemResult, len(items))
	for i, it := range items {
		out[i] = db.BulkItemResult{ID: it.ID}
	}
	return out, nil
}

func (m *mockStore) Refresh(ctx context.Context, index string) error {
	if m.refreshFn != nil {
		return m.refreshFn(ctx, index)
	}
	return nil
}

func newTestRepo(t *testing.T, batchSize int) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, dominv.NewCatalog(), batchSize), ms
}
