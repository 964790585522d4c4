package esgrid

import (
	"github.com/kailas-cloud/esgrid/internal/domain/bulk"
	dominv "github.com/kailas-cloud/esgrid/internal/domain/inventory"
)

// Item is one inventory row.
type Item = dominv.Item

// AggregateKind names an aggregate function.
type AggregateKind string

// Aggregate kinds.
const (
	AggSum      AggregateKind = "sum"
	AggAverage  AggregateKind = "average"
	AggCount    AggregateKind = "count"
	AggMax      AggregateKind = "max"
	AggMin      AggregateKind = "min"
	AggDistinct AggregateKind = "distinct"
)

// AggregateName returns the key under which an aggregate value is reported.
func AggregateName(field string, kind AggregateKind) string {
	return field + " - " + string(kind)
}

// Page is one page of query results.
type Page struct {
	Items      []Item
	Total      int64 // full match count when WithTotal was set, page length otherwise
	Aggregates map[string]float64
}

// ItemResult is the outcome of one row in a batch.
type ItemResult struct {
	ID    string
	OK    bool
	Error error
}

// BatchResult reports a batch edit.
type BatchResult struct {
	Added   []Item
	Changed []Item
	Deleted []int
	Items   []ItemResult
}

// Failed returns the rows that were not applied.
func (r BatchResult) Failed() []ItemResult {
	var out []ItemResult
	for _, it := range r.Items {
		if !it.OK {
			out = append(out, it)
		}
	}
	return out
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component -> "ok"/"error"
}

func fromBulk(results []bulk.Result) []ItemResult {
	out := make([]ItemResult, len(results))
	for i, r := range results {
		out[i] = ItemResult{ID: r.ID(), OK: r.Status() == bulk.StatusOK, Error: r.Err()}
	}
	return out
}
