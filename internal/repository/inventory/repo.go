// Package inventory compiles grid requests into Elasticsearch queries and
// reads and writes inventory items through the engine store.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/kailas-cloud/esgrid/internal/db"
	"github.com/kailas-cloud/esgrid/internal/domain"
	"github.com/kailas-cloud/esgrid/internal/domain/grid/request"
	"github.com/kailas-cloud/esgrid/internal/domain/grid/result"
	dominv "github.com/kailas-cloud/esgrid/internal/domain/inventory"
)

const maxIDAggregation = "max_item_id"

// store is the consumer interface for inventory items (ISP).
type store interface {
	Search(ctx context.Context, index string, req *db.SearchRequest) (*db.SearchResult, error)
	IndexDocument(ctx context.Context, index, id string, body []byte, create bool) error
	DeleteDocument(ctx context.Context, index, id string) error
	Refresh(ctx context.Context, index string) error
}

// Repo implements usecase/grid.Repository.
type Repo struct {
	store    store
	compiler *Compiler
	index    string
}

// New creates an inventory repository over index.
func New(s store, c *Compiler, index string) *Repo {
	return &Repo{store: s, compiler: c, index: index}
}

// Index returns the engine index name.
func (r *Repo) Index() string { return r.index }

// Query compiles and executes a grid request. Without a requested total count
// the envelope count is the page length.
func (r *Repo) Query(ctx context.Context, req *request.Request) (result.Envelope[dominv.Item], error) {
	sreq, err := r.compiler.Compile(ctx, req)
	if err != nil {
		return result.Envelope[dominv.Item]{}, err
	}

	sr, err := r.store.Search(ctx, r.index, sreq)
	if err != nil {
		return result.Envelope[dominv.Item]{}, fmt.Errorf("search %s: %w", r.index, err)
	}

	items, err := decodeItems(sr.Hits)
	if err != nil {
		return result.Envelope[dominv.Item]{}, err
	}

	total := int64(len(items))
	if req.WantTotalCount() {
		total = sr.Total
	}
	return result.New(items, total, Extract(ctx, sr.Aggregations)), nil
}

// Get returns the item with the given identity.
func (r *Repo) Get(ctx context.Context, id int) (dominv.Item, error) {
	identity := r.compiler.Catalog().Identity()
	sr, err := r.store.Search(ctx, r.index, &db.SearchRequest{
		Query: &db.TermQuery{Field: identity.EngineName(), Value: int64(id)},
		Size:  1,
	})
	if err != nil {
		return dominv.Item{}, fmt.Errorf("get %s/%d: %w", r.index, id, err)
	}
	items, err := decodeItems(sr.Hits)
	if err != nil {
		return dominv.Item{}, err
	}
	if len(items) == 0 {
		return dominv.Item{}, domain.ErrNotFound
	}
	return items[0], nil
}

// Insert writes a new item. An existing identity fails with db.ErrConflict.
func (r *Repo) Insert(ctx context.Context, item *dominv.Item) error {
	return r.write(ctx, item, true)
}

// Save writes an item, replacing any existing document with the same identity.
func (r *Repo) Save(ctx context.Context, item *dominv.Item) error {
	return r.write(ctx, item, false)
}

func (r *Repo) write(ctx context.Context, item *dominv.Item, create bool) error {
	body, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	if err := r.store.IndexDocument(ctx, r.index, item.DocumentID(), body, create); err != nil {
		return fmt.Errorf("index %s/%s: %w", r.index, item.DocumentID(), err)
	}
	return nil
}

// Delete removes an item. A missing item is not an error.
func (r *Repo) Delete(ctx context.Context, id int) error {
	docID := strconv.Itoa(id)
	if err := r.store.DeleteDocument(ctx, r.index, docID); err != nil {
		if errors.Is(err, db.ErrDocumentNotFound) {
			return nil
		}
		return fmt.Errorf("delete %s/%s: %w", r.index, docID, err)
	}
	return nil
}

// Refresh makes recent writes visible to search.
func (r *Repo) Refresh(ctx context.Context) error {
	if err := r.store.Refresh(ctx, r.index); err != nil {
		return fmt.Errorf("refresh %s: %w", r.index, err)
	}
	return nil
}

// MaxID returns the highest identity in the index, or 0 when the index is empty.
func (r *Repo) MaxID(ctx context.Context) (int64, error) {
	identity := r.compiler.Catalog().Identity()
	sr, err := r.store.Search(ctx, r.index, &db.SearchRequest{
		Aggregations: []db.Aggregation{
			{Name: maxIDAggregation, Type: db.AggMax, Field: identity.EngineName()},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("max id %s: %w", r.index, err)
	}

	v, ok := Extract(ctx, sr.Aggregations)[maxIDAggregation]
	if !ok || math.IsNaN(v) || v < 0 {
		return 0, nil
	}
	return int64(v), nil
}

func decodeItems(hits []db.Hit) ([]dominv.Item, error) {
	items := make([]dominv.Item, 0, len(hits))
	for _, h := range hits {
		var it dominv.Item
		if err := json.Unmarshal(h.Source, &it); err != nil {
			return nil, fmt.Errorf("decode item %s: %w", h.ID, err)
		}
		items = append(items, it)
	}
	return items, nil
}
