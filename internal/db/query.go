package db

// Query is a native query primitive that renders to its wire form.
type Query interface {
	Source() map[string]any
}

// MatchAllQuery matches every document.
type MatchAllQuery struct{}

// Source renders {"match_all":{}}.
func (MatchAllQuery) Source() map[string]any {
	return map[string]any{"match_all": map[string]any{}}
}

// BoolQuery combines sub-queries: Must (AND), Should (OR), MustNot (AND-NOT).
type BoolQuery struct {
	Must    []Query
	Should  []Query
	MustNot []Query
	// MinimumShouldMatch applies only when Should is non-empty; it defaults to 1.
	MinimumShouldMatch int
}

// IsEmpty reports whether the query has no clauses.
func (q *BoolQuery) IsEmpty() bool {
	return len(q.Must) == 0 && len(q.Should) == 0 && len(q.MustNot) == 0
}

// Source renders the bool container. minimum_should_match is present iff should is.
func (q *BoolQuery) Source() map[string]any {
	b := map[string]any{}
	if len(q.Must) > 0 {
		b["must"] = sources(q.Must)
	}
	if len(q.Should) > 0 {
		b["should"] = sources(q.Should)
		msm := q.MinimumShouldMatch
		if msm <= 0 {
			msm = 1
		}
		b["minimum_should_match"] = msm
	}
	if len(q.MustNot) > 0 {
		b["must_not"] = sources(q.MustNot)
	}
	return map[string]any{"bool": b}
}

// ExistsQuery matches documents with any value in the field.
type ExistsQuery struct {
	Field string
}

// Source renders {"exists":{"field":f}}.
func (q *ExistsQuery) Source() map[string]any {
	return map[string]any{"exists": map[string]any{"field": q.Field}}
}

// TermQuery is an exact match on a non-tokenized field.
type TermQuery struct {
	Field string
	Value any
}

// Source renders {"term":{field:{"value":v}}}.
func (q *TermQuery) Source() map[string]any {
	return map[string]any{"term": map[string]any{q.Field: map[string]any{"value": q.Value}}}
}

// TermsQuery is a membership test.
type TermsQuery struct {
	Field  string
	Values []any
}

// Source renders {"terms":{field:[...]}}.
func (q *TermsQuery) Source() map[string]any {
	vals := q.Values
	if vals == nil {
		vals = []any{}
	}
	return map[string]any{"terms": map[string]any{q.Field: vals}}
}

// WildcardQuery matches a pattern with * and ? metacharacters.
type WildcardQuery struct {
	Field           string
	Value           string
	CaseInsensitive bool
}

// Source renders {"wildcard":{field:{"value":p,"case_insensitive":b}}}.
func (q *WildcardQuery) Source() map[string]any {
	return map[string]any{"wildcard": map[string]any{
		q.Field: map[string]any{"value": q.Value, "case_insensitive": q.CaseInsensitive},
	}}
}

// PrefixQuery matches a literal prefix.
type PrefixQuery struct {
	Field           string
	Value           string
	CaseInsensitive bool
}

// Source renders {"prefix":{field:{"value":p,"case_insensitive":b}}}.
func (q *PrefixQuery) Source() map[string]any {
	return map[string]any{"prefix": map[string]any{
		q.Field: map[string]any{"value": q.Value, "case_insensitive": q.CaseInsensitive},
	}}
}

// RangeQuery is an untyped range. Nil bounds are omitted.
type RangeQuery struct {
	Field string
	GT    any
	GTE   any
	LT    any
	LTE   any
}

// Source renders {"range":{field:{gt/gte/lt/lte}}}.
func (q *RangeQuery) Source() map[string]any {
	r := map[string]any{}
	if q.GT != nil {
		r["gt"] = q.GT
	}
	if q.GTE != nil {
		r["gte"] = q.GTE
	}
	if q.LT != nil {
		r["lt"] = q.LT
	}
	if q.LTE != nil {
		r["lte"] = q.LTE
	}
	return map[string]any{"range": map[string]any{q.Field: r}}
}

func sources(qs []Query) []any {
	out := make([]any, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.Source())
	}
	return out
}
