package inventory

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/kailas-cloud/esgrid/internal/db"
	dominv "github.com/kailas-cloud/esgrid/internal/domain/inventory"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchFn        func(ctx context.Context, index string, req *db.SearchRequest) (*db.SearchResult, error)
	indexDocumentFn func(ctx context.Context, index, id string, body []byte, create bool) error
	deleteFn        func(ctx context.Context, index, id string) error
	refreshFn       func(ctx context.Context, index string) error
}

func (m *mockStore) Search(ctx context.Context, index string, req *db.SearchRequest) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, index, req)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) IndexDocument(ctx context.Context, index, id string, body []byte, create bool) error {
	if m.indexDocumentFn != nil {
		return m.indexDocumentFn(ctx, index, id, body, create)
	}
	return nil
}

func (m *mockStore) DeleteDocument(ctx context.Context, index, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, index, id)
	}
	return nil
}

func (m *mockStore) Refresh(ctx context.Context, index string) error {
	if m.refreshFn != nil {
		return m.refreshFn(ctx, index)
	}
	return nil
}

func newTestCompiler(t *testing.T) *Compiler {
	t.Helper()
	return NewCompiler(dominv.NewCatalog())
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, newTestCompiler(t), dominv.IndexName), ms
}

func toJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

// --- In-memory evaluator ---
//
// evaluate runs a compiled request over documents the way the engine would for
// the primitives the compiler emits. It lets tests check result semantics and
// not only the query shape.

type doc map[string]any

func evaluate(t *testing.T, req *db.SearchRequest, docs []doc) []doc {
	t.Helper()
	q := req.Query
	if q == nil {
		q = db.MatchAllQuery{}
	}

	var hits []doc
	for _, d := range docs {
		if matches(t, q, d) {
			hits = append(hits, d)
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		for _, s := range req.Sort {
			c := compareValues(field(hits[i], s.Field), field(hits[j], s.Field))
			if c == 0 {
				continue
			}
			if s.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	if req.From >= len(hits) {
		return nil
	}
	hits = hits[req.From:]
	if req.Size < len(hits) {
		hits = hits[:req.Size]
	}
	return hits
}

func matches(t *testing.T, q db.Query, d doc) bool {
	t.Helper()
	switch x := q.(type) {
	case db.MatchAllQuery:
		return true
	case *db.BoolQuery:
		for _, m := range x.Must {
			if !matches(t, m, d) {
				return false
			}
		}
		for _, m := range x.MustNot {
			if matches(t, m, d) {
				return false
			}
		}
		if len(x.Should) > 0 {
			msm := x.MinimumShouldMatch
			if msm <= 0 {
				msm = 1
			}
			n := 0
			for _, s := range x.Should {
				if matches(t, s, d) {
					n++
				}
			}
			return n >= msm
		}
		return true
	case *db.ExistsQuery:
		return field(d, x.Field) != nil
	case *db.TermQuery:
		return compareValues(field(d, x.Field), x.Value) == 0
	case *db.TermsQuery:
		for _, v := range x.Values {
			if compareValues(field(d, x.Field), v) == 0 {
				return true
			}
		}
		return false
	case *db.WildcardQuery:
		return wildcardRegexp(x.Value, x.CaseInsensitive).MatchString(fmt.Sprint(field(d, x.Field)))
	case *db.PrefixQuery:
		s := fmt.Sprint(field(d, x.Field))
		if x.CaseInsensitive {
			return strings.HasPrefix(strings.ToLower(s), strings.ToLower(x.Value))
		}
		return strings.HasPrefix(s, x.Value)
	case *db.RangeQuery:
		v := field(d, x.Field)
		if v == nil {
			return false
		}
		return (x.GT == nil || compareValues(v, x.GT) > 0) &&
			(x.GTE == nil || compareValues(v, x.GTE) >= 0) &&
			(x.LT == nil || compareValues(v, x.LT) < 0) &&
			(x.LTE == nil || compareValues(v, x.LTE) <= 0)
	}
	t.Fatalf("evaluator: unsupported query %T", q)
	return false
}

func field(d doc, name string) any {
	return d[strings.TrimSuffix(name, ".keyword")]
}

func wildcardRegexp(pattern string, ci bool) *regexp.Regexp {
	var b strings.Builder
	if ci {
		b.WriteString("(?i)")
	}
	b.WriteString("^")
	rs := []rune(pattern)
	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case '\\':
			if i+1 < len(rs) {
				i++
			}
			b.WriteString(regexp.QuoteMeta(string(rs[i])))
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(rs[i])))
		}
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}

func compareValues(a, b any) int {
	fa, aok := number(a)
	fb, bok := number(b)
	if aok && bok {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
