package db

import (
	"context"
	"time"
)

// Store is the search engine facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade; consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	IndexManager
	DocumentStore
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks engine connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexManager provides index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	Refresh(ctx context.Context, index string) error
}

// BulkItem is a single document in a bulk index request.
type BulkItem struct {
	ID   string
	Body []byte
}

// BulkItemResult is the engine outcome for one bulk item. Err is nil on success.
type BulkItemResult struct {
	ID  string
	Err error
}

// DocumentStore provides keyed document writes.
type DocumentStore interface {
	// IndexDocument writes body under id. With create set, an existing id fails
	// with ErrConflict instead of being overwritten.
	IndexDocument(ctx context.Context, index, id string, body []byte, create bool) error
	DeleteDocument(ctx context.Context, index, id string) error
	Bulk(ctx context.Context, index string, items []BulkItem) ([]BulkItemResult, error)
}

// Searcher executes compiled search requests.
type Searcher interface {
	Search(ctx context.Context, index string, req *SearchRequest) (*SearchResult, error)
}

// Counter issues monotonically increasing identities.
type Counter interface {
	// Next returns max(current, floor)+1 and stores it, atomically.
	Next(ctx context.Context, key string, floor int64) (int64, error)
	// Reset overwrites the counter.
	Reset(ctx context.Context, key string, value int64) error
}
