package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jinzhu/now"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esgrid/internal/db"
	"github.com/kailas-cloud/esgrid/internal/domain"
	"github.com/kailas-cloud/esgrid/internal/domain/catalog"
	"github.com/kailas-cloud/esgrid/internal/domain/grid/filter"
	"github.com/kailas-cloud/esgrid/internal/domain/grid/request"
	"github.com/kailas-cloud/esgrid/internal/logger"
)

// MaxFilterDepth bounds filter tree nesting.
const MaxFilterDepth = 32

// Compiler turns grid requests into native search requests. It is stateless
// apart from the catalog and safe for concurrent use.
type Compiler struct {
	catalog *catalog.Catalog
	dates   *now.Config
}

// NewCompiler creates a compiler over cat.
func NewCompiler(cat *catalog.Catalog) *Compiler {
	return &Compiler{catalog: cat, dates: newDateParser()}
}

// Catalog returns the field catalog the compiler resolves against.
func (c *Compiler) Catalog() *catalog.Catalog { return c.catalog }

// Compile builds the full search request: filter tree AND search fan-out, sort,
// aggregations and the page window. Errors are request errors and are returned
// before any network call.
func (c *Compiler) Compile(ctx context.Context, req *request.Request) (*db.SearchRequest, error) {
	where, err := c.Filters(ctx, req.Filters())
	if err != nil {
		return nil, err
	}
	sort, err := c.Sort(req.Sort())
	if err != nil {
		return nil, err
	}
	aggs, err := c.Aggregations(ctx, req.Aggregates())
	if err != nil {
		return nil, err
	}

	var must []db.Query
	if where != nil {
		must = append(must, where)
	}
	if fanOut := c.Search(ctx, req.Search()); fanOut != nil {
		must = append(must, fanOut)
	}

	var q db.Query = db.MatchAllQuery{}
	if len(must) > 0 {
		q = &db.BoolQuery{Must: must}
	}

	return &db.SearchRequest{
		Query:          q,
		From:           req.Skip(),
		Size:           req.Take(),
		Sort:           sort,
		Aggregations:   aggs,
		TrackTotalHits: req.WantTotalCount(),
	}, nil
}

// Filters folds the top-level nodes into one AND. Returns nil when every node is absent.
func (c *Compiler) Filters(ctx context.Context, nodes []filter.Node) (db.Query, error) {
	must, err := c.children(ctx, nodes, 1)
	if err != nil {
		return nil, err
	}
	if len(must) == 0 {
		return nil, nil
	}
	return &db.BoolQuery{Must: must}, nil
}

// Tree compiles one filter node. A nil query means the node is absent and must
// be left out of its parent.
func (c *Compiler) Tree(ctx context.Context, n filter.Node) (db.Query, error) {
	return c.tree(ctx, n, 1)
}

func (c *Compiler) tree(ctx context.Context, n filter.Node, depth int) (db.Query, error) {
	if depth > MaxFilterDepth {
		return nil, domain.InvalidRequestf("filter nested deeper than %d levels", MaxFilterDepth)
	}
	if n.Kind() == filter.KindLeaf {
		return c.Leaf(ctx, n.Leaf())
	}

	g := n.Group()
	qs, err := c.children(ctx, g.Children(), depth+1)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, nil
	}
	if g.Condition() == filter.Or {
		return &db.BoolQuery{Should: qs, MinimumShouldMatch: 1}, nil
	}
	return &db.BoolQuery{Must: qs}, nil
}

func (c *Compiler) children(ctx context.Context, nodes []filter.Node, depth int) ([]db.Query, error) {
	var out []db.Query
	for _, child := range nodes {
		q, err := c.tree(ctx, child, depth)
		if err != nil {
			return nil, err
		}
		if q != nil {
			out = append(out, q)
		}
	}
	return out, nil
}

// Leaf builds the native primitive for one predicate. An empty field name or an
// empty membership list yields nil. Unsupported operators compile as equal.
func (c *Compiler) Leaf(ctx context.Context, l filter.Leaf) (db.Query, error) {
	if l.Field() == "" {
		return nil, nil
	}
	f, ok := c.catalog.Lookup(l.Field())
	if !ok {
		return nil, domain.NewUnknownField(l.Field(), "filter")
	}

	op := l.Operator()
	if !op.IsValid() {
		logger.FromContext(ctx).Warn("unsupported filter operator, compiling as equal",
			zap.String("field", f.LogicalName()),
			zap.String("operator", string(op)),
		)
		op = filter.Equal
	}

	switch op {
	case filter.Equal:
		return c.equal(f, l.Value())
	case filter.NotEqual:
		if l.Value() == nil {
			return &db.ExistsQuery{Field: f.EngineName()}, nil
		}
		q, err := c.equal(f, l.Value())
		if err != nil {
			return nil, err
		}
		return &db.BoolQuery{MustNot: []db.Query{q}}, nil
	case filter.Contains, filter.StartsWith, filter.EndsWith:
		return c.pattern(f, op, l.Value())
	case filter.GreaterThan, filter.GreaterThanOrEqual, filter.LessThan, filter.LessThanOrEqual:
		return c.rangeQuery(f, op, l.Value())
	case filter.In:
		return c.membership(f, l.Value())
	}
	return nil, fmt.Errorf("operator %q: %w", op, domain.ErrInvalidRequest)
}

func (c *Compiler) equal(f catalog.Field, value any) (db.Query, error) {
	if value == nil {
		return &db.BoolQuery{MustNot: []db.Query{&db.ExistsQuery{Field: f.EngineName()}}}, nil
	}
	v, err := c.normalizeValue(f, value)
	if err != nil {
		return nil, err
	}
	return &db.TermQuery{Field: f.ExactName(), Value: v}, nil
}

func (c *Compiler) pattern(f catalog.Field, op filter.Operator, value any) (db.Query, error) {
	if f.Class() != catalog.Text {
		return nil, invalidOperand(f, "operator %s requires a text field", op)
	}
	s := stringOperand(value)
	switch op {
	case filter.StartsWith:
		return &db.PrefixQuery{Field: f.ExactName(), Value: s, CaseInsensitive: true}, nil
	case filter.EndsWith:
		return &db.WildcardQuery{Field: f.ExactName(), Value: "*" + escapeWildcard(s), CaseInsensitive: true}, nil
	default:
		return &db.WildcardQuery{Field: f.ExactName(), Value: "*" + escapeWildcard(s) + "*", CaseInsensitive: true}, nil
	}
}

func (c *Compiler) rangeQuery(f catalog.Field, op filter.Operator, value any) (db.Query, error) {
	if f.Class() == catalog.Text {
		return nil, invalidOperand(f, "operator %s requires a numeric or date field", op)
	}
	if value == nil {
		return nil, invalidOperand(f, "operator %s requires a value", op)
	}
	v, err := c.normalizeValue(f, value)
	if err != nil {
		return nil, err
	}

	q := &db.RangeQuery{Field: f.EngineName()}
	switch op {
	case filter.GreaterThan:
		q.GT = v
	case filter.GreaterThanOrEqual:
		q.GTE = v
	case filter.LessThan:
		q.LT = v
	default:
		q.LTE = v
	}
	return q, nil
}

func (c *Compiler) membership(f catalog.Field, value any) (db.Query, error) {
	raw, ok := value.([]any)
	if !ok {
		raw = []any{value}
	}
	vals := make([]any, 0, len(raw))
	for _, item := range raw {
		if item == nil {
			continue
		}
		v, err := c.normalizeValue(f, item)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	if len(vals) == 0 {
		return nil, nil
	}
	return &db.TermsQuery{Field: f.ExactName(), Values: vals}, nil
}

// Search fans every term out over its fields and ORs the results. Fields that
// are unknown or whose type the text cannot be parsed as are dropped. Returns nil
// when nothing survives.
func (c *Compiler) Search(ctx context.Context, terms []request.SearchTerm) db.Query {
	log := logger.FromContext(ctx)

	var should []db.Query
	for _, term := range terms {
		text := strings.TrimSpace(term.Text)
		if text == "" || len(term.Fields) == 0 {
			continue
		}
		for _, name := range term.Fields {
			f, ok := c.catalog.Lookup(name)
			if !ok {
				log.Debug("search field not found, skipping", zap.String("field", name))
				continue
			}
			q, ok := c.searchLeaf(f, text)
			if !ok {
				log.Debug("search text does not parse for field, skipping",
					zap.String("field", f.LogicalName()),
					zap.String("class", string(f.Class())),
				)
				continue
			}
			should = append(should, q)
		}
	}
	if len(should) == 0 {
		return nil
	}
	return &db.BoolQuery{Should: should, MinimumShouldMatch: 1}
}

func (c *Compiler) searchLeaf(f catalog.Field, text string) (db.Query, bool) {
	switch f.Class() {
	case catalog.Text:
		return &db.WildcardQuery{Field: f.ExactName(), Value: "*" + escapeWildcard(text) + "*", CaseInsensitive: true}, true
	case catalog.Numeric:
		n, ok := parseNumber(text)
		if !ok {
			return nil, false
		}
		if f.NumericKind() == catalog.Integer {
			iv, ok := integerValue(n)
			if !ok {
				return nil, false
			}
			n = iv
		}
		return &db.TermQuery{Field: f.EngineName(), Value: n}, true
	case catalog.Date:
		t, ok := c.parseDate(text)
		if !ok {
			return nil, false
		}
		return &db.TermQuery{Field: f.EngineName(), Value: formatTime(t)}, true
	}
	return nil, false
}

// Sort resolves sort keys in input order; the first key is primary. Text fields
// sort on their keyword projection. No keys means identity ascending.
func (c *Compiler) Sort(keys []request.SortKey) ([]db.SortField, error) {
	identity := c.catalog.Identity()
	if len(keys) == 0 {
		return []db.SortField{{Field: identity.ExactName()}}, nil
	}

	out := make([]db.SortField, 0, len(keys))
	for _, k := range keys {
		f := identity
		if k.Field != "" {
			var ok bool
			if f, ok = c.catalog.Lookup(k.Field); !ok {
				return nil, domain.NewUnknownField(k.Field, "sort")
			}
		}
		out = append(out, db.SortField{Field: f.ExactName(), Desc: k.Direction == request.Descending})
	}
	return out, nil
}
