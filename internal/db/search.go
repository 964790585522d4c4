package db

import "encoding/json"

// Aggregation metric types.
const (
	AggSum         = "sum"
	AggAvg         = "avg"
	AggValueCount  = "value_count"
	AggMax         = "max"
	AggMin         = "min"
	AggCardinality = "cardinality"
)

// Aggregation is a single-value metric aggregation over one field.
type Aggregation struct {
	Name  string
	Type  string
	Field string
}

// SortField orders hits by one field.
type SortField struct {
	Field string
	Desc  bool
}

// SearchRequest is a compiled search body.
type SearchRequest struct {
	Query          Query
	From           int
	Size           int
	Sort           []SortField
	Aggregations   []Aggregation
	TrackTotalHits bool
}

// Body renders the request body. track_total_hits travels as a URL parameter.
func (r *SearchRequest) Body() map[string]any {
	q := r.Query
	if q == nil {
		q = MatchAllQuery{}
	}
	body := map[string]any{
		"query": q.Source(),
		"from":  r.From,
		"size":  r.Size,
	}
	if len(r.Sort) > 0 {
		sort := make([]any, 0, len(r.Sort))
		for _, s := range r.Sort {
			order := "asc"
			if s.Desc {
				order = "desc"
			}
			sort = append(sort, map[string]any{s.Field: map[string]any{"order": order}})
		}
		body["sort"] = sort
	}
	if len(r.Aggregations) > 0 {
		aggs := make(map[string]any, len(r.Aggregations))
		for _, a := range r.Aggregations {
			aggs[a.Name] = map[string]any{a.Type: map[string]any{"field": a.Field}}
		}
		body["aggs"] = aggs
	}
	return body
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total        int64
	Hits         []Hit
	Aggregations map[string]json.RawMessage
}

// Hit is a single document from a search.
type Hit struct {
	ID     string
	Source json.RawMessage
}
