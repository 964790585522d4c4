package bootstrap

import (
	"context"

	"github.com/kailas-cloud/esgrid/internal/db"
	"github.com/kailas-cloud/esgrid/internal/domain/bulk"
	dominv "github.com/kailas-cloud/esgrid/internal/domain/inventory"
)

// Repository manages the backing index.
type Repository interface {
	Exists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, name string, settings db.IndexSettings) error
	Load(ctx context.Context, name string, items []dominv.Item) ([]bulk.Result, error)
	Refresh(ctx context.Context, name string) error
}

// Generator produces seed items.
type Generator interface {
	Generate(n int) []dominv.Item
}

// SequenceResetter aligns the identity sequence with freshly seeded data.
type SequenceResetter interface {
	Reset(ctx context.Context, key string, value int64) error
}
