// Package result holds the generic grid result envelope.
package result

// Envelope is one page of rows plus the full match count and aggregate values.
type Envelope[T any] struct {
	rows       []T
	totalCount int64
	aggregates map[string]float64
}

// New creates an envelope. A nil aggregates map means none were requested.
func New[T any](rows []T, totalCount int64, aggregates map[string]float64) Envelope[T] {
	if rows == nil {
		rows = []T{}
	}
	return Envelope[T]{rows: rows, totalCount: totalCount, aggregates: aggregates}
}

// Rows returns the page rows.
func (e *Envelope[T]) Rows() []T { return e.rows }

// TotalCount returns the size of the full matching set.
func (e *Envelope[T]) TotalCount() int64 { return e.totalCount }

// Aggregates returns aggregate values keyed by "<field> - <kind>".
func (e *Envelope[T]) Aggregates() map[string]float64 { return e.aggregates }

// Aggregate returns one aggregate value.
func (e *Envelope[T]) Aggregate(name string) (float64, bool) {
	v, ok := e.aggregates[name]
	return v, ok
}
