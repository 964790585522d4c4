package esgrid

import (
	"fmt"

	"github.com/kailas-cloud/esgrid/internal/domain/grid/filter"
	"github.com/kailas-cloud/esgrid/internal/domain/grid/request"
)

// Filter is one condition or group of conditions.
type Filter struct {
	node filter.Node
}

func leaf(field string, op filter.Operator, value any) Filter {
	return Filter{node: filter.NewLeaf(field, op, value, false)}
}

// Eq matches field equal to value. A nil value matches rows without the field.
func Eq(field string, value any) Filter { return leaf(field, filter.Equal, value) }

// Ne matches field not equal to value.
func Ne(field string, value any) Filter { return leaf(field, filter.NotEqual, value) }

// Contains matches text fields containing value, ignoring case.
func Contains(field, value string) Filter { return leaf(field, filter.Contains, value) }

// StartsWith matches text fields starting with value, ignoring case.
func StartsWith(field, value string) Filter { return leaf(field, filter.StartsWith, value) }

// EndsWith matches text fields ending with value, ignoring case.
func EndsWith(field, value string) Filter { return leaf(field, filter.EndsWith, value) }

// Gt matches field > value.
func Gt(field string, value any) Filter { return leaf(field, filter.GreaterThan, value) }

// Gte matches field >= value.
func Gte(field string, value any) Filter { return leaf(field, filter.GreaterThanOrEqual, value) }

// Lt matches field < value.
func Lt(field string, value any) Filter { return leaf(field, filter.LessThan, value) }

// Lte matches field <= value.
func Lte(field string, value any) Filter { return leaf(field, filter.LessThanOrEqual, value) }

// In matches field equal to any of values.
func In(field string, values ...any) Filter { return leaf(field, filter.In, values) }

// And matches rows matching every filter.
func And(filters ...Filter) Filter { return group(filter.And, filters) }

// Or matches rows matching at least one filter.
func Or(filters ...Filter) Filter { return group(filter.Or, filters) }

func group(cond filter.Condition, filters []Filter) Filter {
	nodes := make([]filter.Node, len(filters))
	for i, f := range filters {
		nodes[i] = f.node
	}
	return Filter{node: filter.NewGroup(cond, nodes...)}
}

// Query is a fluent builder for inventory queries.
type Query struct {
	skip, take int
	filters    []filter.Node
	search     []request.SearchTerm
	sort       []request.SortKey
	aggregates []request.AggregateSpec
	withTotal  bool
}

// NewQuery starts an empty query. Without Take it returns as many rows as the
// service allows.
func NewQuery() *Query {
	return &Query{}
}

// Where adds filters. Filters from repeated calls are AND-combined.
func (q *Query) Where(filters ...Filter) *Query {
	for _, f := range filters {
		q.filters = append(q.filters, f.node)
	}
	return q
}

// Search matches text in any of the fields. Numeric and date fields match
// only when text parses as their type.
func (q *Query) Search(text string, fields ...string) *Query {
	q.search = append(q.search, request.SearchTerm{Text: text, Fields: fields, CaseInsensitive: true})
	return q
}

// OrderBy sorts ascending by field. Earlier keys take precedence.
func (q *Query) OrderBy(field string) *Query {
	q.sort = append(q.sort, request.SortKey{Field: field, Direction: request.Ascending})
	return q
}

// OrderByDesc sorts descending by field.
func (q *Query) OrderByDesc(field string) *Query {
	q.sort = append(q.sort, request.SortKey{Field: field, Direction: request.Descending})
	return q
}

// Skip sets the number of rows to skip.
func (q *Query) Skip(n int) *Query {
	q.skip = n
	return q
}

// Take sets the page size.
func (q *Query) Take(n int) *Query {
	q.take = n
	return q
}

// Aggregate requests an aggregate over the full match set. Read it back from
// Page.Aggregates under AggregateName(field, kind).
func (q *Query) Aggregate(field string, kind AggregateKind) *Query {
	q.aggregates = append(q.aggregates, request.AggregateSpec{Field: field, Kind: string(kind)})
	return q
}

// WithTotal asks for the full match count in Page.Total.
func (q *Query) WithTotal() *Query {
	q.withTotal = true
	return q
}

func (q *Query) build() (request.Request, error) {
	req, err := request.New(q.skip, q.take, q.filters, q.search, q.sort, q.aggregates, q.withTotal)
	if err != nil {
		return request.Request{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return req, nil
}
