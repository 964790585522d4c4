package chi

import (
	"fmt"

	"github.com/kailas-cloud/esgrid/internal/domain"
	"github.com/kailas-cloud/esgrid/internal/domain/grid/filter"
	"github.com/kailas-cloud/esgrid/internal/domain/grid/request"
	dominv "github.com/kailas-cloud/esgrid/internal/domain/inventory"
)

// ErrorCode is a machine-readable error identifier in API responses.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest        ErrorCode = "bad_request"
	CodeUnauthorized      ErrorCode = "unauthorized"
	CodeValidationFailed  ErrorCode = "validation_failed"
	CodeUnknownField      ErrorCode = "unknown_field"
	CodeNotFound          ErrorCode = "not_found"
	CodeAlreadyExists     ErrorCode = "already_exists"
	CodeIdentityExhausted ErrorCode = "identity_exhausted"
	CodeEngineError       ErrorCode = "engine_error"
	CodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the error body of every failed request.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// DataManagerRequest is the grid's data request as sent by the client data manager.
type DataManagerRequest struct {
	Skip           int              `json:"skip"`
	Take           int              `json:"take"`
	RequiresCounts bool             `json:"requiresCounts"`
	Where          []Predicate      `json:"where,omitempty"`
	Search         []SearchFilter   `json:"search,omitempty"`
	Sorted         []SortDescriptor `json:"sorted,omitempty"`
	Aggregates     []Aggregate      `json:"aggregates,omitempty"`
}

// Predicate is either a single condition or, when IsComplex, a group of predicates.
type Predicate struct {
	Field      string      `json:"field,omitempty"`
	Operator   string      `json:"operator,omitempty"`
	Value      any         `json:"value,omitempty"`
	IgnoreCase bool        `json:"ignoreCase,omitempty"`
	IsComplex  bool        `json:"isComplex,omitempty"`
	Condition  string      `json:"condition,omitempty"`
	Predicates []Predicate `json:"predicates,omitempty"`
}

// SearchFilter is a free-text search over a set of fields.
type SearchFilter struct {
	Key        string   `json:"key"`
	Fields     []string `json:"fields"`
	Operator   string   `json:"operator,omitempty"`
	IgnoreCase bool     `json:"ignoreCase,omitempty"`
}

// SortDescriptor orders by one field.
type SortDescriptor struct {
	Name      string `json:"name"`
	Direction string `json:"direction,omitempty"`
}

// Aggregate requests one aggregate value.
type Aggregate struct {
	Field string `json:"field"`
	Type  string `json:"type"`
}

// QueryResponse is the counted query result.
type QueryResponse struct {
	Result     []dominv.Item      `json:"result"`
	Count      int64              `json:"count"`
	Aggregates map[string]float64 `json:"aggregates,omitempty"`
}

// BatchRequest is a batch edit. Deleted rows only need their itemId.
type BatchRequest struct {
	Added   []dominv.Item `json:"added"`
	Changed []dominv.Item `json:"changed"`
	Deleted []dominv.Item `json:"deleted"`
}

// BatchItemResult is the outcome for one row of a batch.
type BatchItemResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// BatchResponse echoes the applied rows and reports every row's outcome.
type BatchResponse struct {
	Added     []dominv.Item     `json:"added"`
	Changed   []dominv.Item     `json:"changed"`
	Deleted   []dominv.Item     `json:"deleted"`
	Results   []BatchItemResult `json:"results"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// HealthResponse is the health report body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func requestFromDTO(dm *DataManagerRequest) (request.Request, error) {
	filters := make([]filter.Node, 0, len(dm.Where))
	for _, p := range dm.Where {
		filters = append(filters, nodeFromPredicate(p))
	}

	search := make([]request.SearchTerm, 0, len(dm.Search))
	for _, s := range dm.Search {
		search = append(search, request.SearchTerm{
			Text:            s.Key,
			Fields:          s.Fields,
			CaseInsensitive: s.IgnoreCase,
		})
	}

	sorts := make([]request.SortKey, 0, len(dm.Sorted))
	for _, s := range dm.Sorted {
		sorts = append(sorts, request.SortKey{Field: s.Name, Direction: request.ParseDirection(s.Direction)})
	}

	aggs := make([]request.AggregateSpec, 0, len(dm.Aggregates))
	for _, a := range dm.Aggregates {
		aggs = append(aggs, request.AggregateSpec{Field: a.Field, Kind: a.Type})
	}

	req, err := request.New(dm.Skip, dm.Take, filters, search, sorts, aggs, dm.RequiresCounts)
	if err != nil {
		return request.Request{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	return req, nil
}

func nodeFromPredicate(p Predicate) filter.Node {
	if p.IsComplex || len(p.Predicates) > 0 {
		children := make([]filter.Node, 0, len(p.Predicates))
		for _, c := range p.Predicates {
			children = append(children, nodeFromPredicate(c))
		}
		return filter.NewGroup(filter.ParseCondition(p.Condition), children...)
	}
	op, _ := filter.ParseOperator(p.Operator)
	return filter.NewLeaf(p.Field, op, p.Value, p.IgnoreCase)
}

func ids(items []dominv.Item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.ItemID
	}
	return out
}
