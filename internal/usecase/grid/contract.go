package grid

import (
	"context"

	"github.com/kailas-cloud/esgrid/internal/domain/grid/request"
	"github.com/kailas-cloud/esgrid/internal/domain/grid/result"
	dominv "github.com/kailas-cloud/esgrid/internal/domain/inventory"
)

// Repository defines the storage contract for inventory items.
type Repository interface {
	Query(ctx context.Context, req *request.Request) (result.Envelope[dominv.Item], error)
	Get(ctx context.Context, id int) (dominv.Item, error)
	Insert(ctx context.Context, item *dominv.Item) error
	Save(ctx context.Context, item *dominv.Item) error
	Delete(ctx context.Context, id int) error
	Refresh(ctx context.Context) error
	MaxID(ctx context.Context) (int64, error)
}

// Sequence issues identities atomically.
type Sequence interface {
	Next(ctx context.Context, key string, floor int64) (int64, error)
}
