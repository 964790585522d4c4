// Package request models the generic grid data request.
package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/esgrid/internal/domain/grid/filter"
)

// Request limits.
const (
	// MaxSearchTerms bounds the free-text terms per request.
	MaxSearchTerms   = 16
	MaxSortKeys      = 16
	MaxAggregates    = 32
	MaxSearchTextLen = 1024
)

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection accepts asc/ascending and desc/descending case-insensitively.
// Anything else is ascending.
func ParseDirection(s string) Direction {
	switch strings.ToLower(s) {
	case "desc", "descending":
		return Descending
	}
	return Ascending
}

// SearchTerm is one free-text term fanned out over several fields.
type SearchTerm struct {
	Text            string
	Fields          []string
	CaseInsensitive bool
}

// SortKey orders results by one field.
type SortKey struct {
	Field     string
	Direction Direction
}

// AggregateSpec requests one aggregate over a field. Kind is kept as sent;
// the compiler resolves it.
type AggregateSpec struct {
	Field string
	Kind  string
}

// Name returns the deterministic aggregate result key "<field> - <kind>".
func (a AggregateSpec) Name() string {
	return a.Field + " - " + strings.ToLower(a.Kind)
}

// Request is a validated, immutable grid data request.
type Request struct {
	skip           int
	take           int
	filters        []filter.Node
	search         []SearchTerm
	sort           []SortKey
	aggregates     []AggregateSpec
	wantTotalCount bool
}

// New validates and creates a Request. take=0 means "all" and is resolved by the
// grid service, never as zero rows.
func New(
	skip, take int,
	filters []filter.Node,
	search []SearchTerm,
	sort []SortKey,
	aggregates []AggregateSpec,
	wantTotalCount bool,
) (Request, error) {
	if skip < 0 {
		return Request{}, fmt.Errorf("skip must be >= 0, got %d", skip)
	}
	if take < 0 {
		return Request{}, fmt.Errorf("take must be >= 0, got %d", take)
	}
	if len(search) > MaxSearchTerms {
		return Request{}, fmt.Errorf("too many search terms (max %d)", MaxSearchTerms)
	}
	for _, s := range search {
		if len(s.Text) > MaxSearchTextLen {
			return Request{}, fmt.Errorf("search text too long (max %d chars)", MaxSearchTextLen)
		}
	}
	if len(sort) > MaxSortKeys {
		return Request{}, fmt.Errorf("too many sort keys (max %d)", MaxSortKeys)
	}
	if len(aggregates) > MaxAggregates {
		return Request{}, fmt.Errorf("too many aggregates (max %d)", MaxAggregates)
	}

	normSort := make([]SortKey, len(sort))
	for i, k := range sort {
		if k.Direction != Descending {
			k.Direction = Ascending
		}
		normSort[i] = k
	}

	return Request{
		skip:           skip,
		take:           take,
		filters:        append([]filter.Node(nil), filters...),
		search:         append([]SearchTerm(nil), search...),
		sort:           normSort,
		aggregates:     append([]AggregateSpec(nil), aggregates...),
		wantTotalCount: wantTotalCount,
	}, nil
}

// Skip returns the number of rows to skip.
func (r *Request) Skip() int { return r.skip }

// Take returns the page size. Zero means all.
func (r *Request) Take() int { return r.take }

// Filters returns the top-level filter nodes. They are AND-combined.
func (r *Request) Filters() []filter.Node { return r.filters }

// Search returns the free-text search terms.
func (r *Request) Search() []SearchTerm { return r.search }

// Sort returns the sort keys in precedence order.
func (r *Request) Sort() []SortKey { return r.sort }

// Aggregates returns the aggregate specs.
func (r *Request) Aggregates() []AggregateSpec { return r.aggregates }

// WantTotalCount reports whether the caller needs the full match count.
func (r *Request) WantTotalCount() bool { return r.wantTotalCount }

// WithPage returns a copy with skip and take replaced.
func (r Request) WithPage(skip, take int) Request {
	r.skip = skip
	r.take = take
	return r
}
