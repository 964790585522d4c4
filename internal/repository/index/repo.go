// Package index manages the lifecycle of catalog-backed engine indexes.
package index

import (
	"context"
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/kailas-cloud/esgrid/internal/db"
	"github.com/kailas-cloud/esgrid/internal/domain/bulk"
	"github.com/kailas-cloud/esgrid/internal/domain/catalog"
	dominv "github.com/kailas-cloud/esgrid/internal/domain/inventory"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultBatchSize is the number of documents per bulk request.
const DefaultBatchSize = 500

// store is the consumer interface for index lifecycle (ISP).
type store interface {
	IndexExists(ctx context.Context, name string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	Bulk(ctx context.Context, index string, items []db.BulkItem) ([]db.BulkItemResult, error)
	Refresh(ctx context.Context, index string) error
}

// Repo implements usecase/bootstrap.Repository.
type Repo struct {
	store     store
	catalog   *catalog.Catalog
	batchSize int
}

// New creates an index repository. A non-positive batchSize uses DefaultBatchSize.
func New(s store, cat *catalog.Catalog, batchSize int) *Repo {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Repo{store: s, catalog: cat, batchSize: batchSize}
}

// Exists reports whether the index is present.
func (r *Repo) Exists(ctx context.Context, name string) (bool, error) {
	ok, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("index exists %s: %w", name, err)
	}
	return ok, nil
}

// Create creates the index with a mapping derived from the catalog.
func (r *Repo) Create(ctx context.Context, name string, settings db.IndexSettings) error {
	def, err := buildIndex(name, settings, r.catalog)
	if err != nil {
		return err
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index %s: %w", name, err)
	}
	return nil
}

// Load bulk-indexes items keyed by identity, in chunks. A failed chunk request
// is returned as an error; per-item failures are reported in the results.
func (r *Repo) Load(ctx context.Context, name string, items []dominv.Item) ([]bulk.Result, error) {
	results := make([]bulk.Result, 0, len(items))
	for start := 0; start < len(items); start += r.batchSize {
		end := min(start+r.batchSize, len(items))

		chunk := make([]db.BulkItem, 0, end-start)
		for i := start; i < end; i++ {
			body, err := json.Marshal(&items[i])
			if err != nil {
				return results, fmt.Errorf("marshal item %d: %w", items[i].ItemID, err)
			}
			chunk = append(chunk, db.BulkItem{ID: strconv.Itoa(items[i].ItemID), Body: body})
		}

		res, err := r.store.Bulk(ctx, name, chunk)
		if err != nil {
			return results, fmt.Errorf("bulk %s [%d:%d]: %w", name, start, end, err)
		}
		for _, ir := range res {
			if ir.Err != nil {
				results = append(results, bulk.NewError(ir.ID, ir.Err))
				continue
			}
			results = append(results, bulk.NewOK(ir.ID))
		}
	}
	return results, nil
}

// Refresh makes loaded documents visible to search.
func (r *Repo) Refresh(ctx context.Context, name string) error {
	if err := r.store.Refresh(ctx, name); err != nil {
		return fmt.Errorf("refresh %s: %w", name, err)
	}
	return nil
}

// buildIndex creates an IndexDefinition from the catalog. Text fields carry a
// keyword projection.
func buildIndex(name string, settings db.IndexSettings, cat *catalog.Catalog) (*db.IndexDefinition, error) {
	b := db.NewIndex(name).
		Replicas(settings.Replicas).
		MaxResultWindow(settings.MaxResultWindow)
	if settings.Shards > 0 {
		b.Shards(settings.Shards)
	}

	for _, f := range cat.Fields() {
		switch f.Class() {
		case catalog.Text:
			b.Text(f.EngineName())
		case catalog.Date:
			b.Date(f.EngineName())
		case catalog.Numeric:
			if f.NumericKind() == catalog.Double {
				b.Double(f.EngineName())
			} else {
				b.Integer(f.EngineName())
			}
		default:
			return nil, fmt.Errorf("unknown field class: %s", f.Class())
		}
	}

	def, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build index %s: %w", name, err)
	}
	return def, nil
}
