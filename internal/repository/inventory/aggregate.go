package inventory

import (
	"context"
	stdjson "encoding/json"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esgrid/internal/db"
	"github.com/kailas-cloud/esgrid/internal/domain"
	"github.com/kailas-cloud/esgrid/internal/domain/catalog"
	"github.com/kailas-cloud/esgrid/internal/domain/grid/request"
	"github.com/kailas-cloud/esgrid/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var aggregateKinds = map[string]string{
	"sum":         db.AggSum,
	"average":     db.AggAvg,
	"avg":         db.AggAvg,
	"count":       db.AggValueCount,
	"max":         db.AggMax,
	"min":         db.AggMin,
	"distinct":    db.AggCardinality,
	"cardinality": db.AggCardinality,
}

// Aggregations compiles aggregate specs into named metric aggregations.
// Unknown kinds aggregate as sum.
func (c *Compiler) Aggregations(ctx context.Context, specs []request.AggregateSpec) ([]db.Aggregation, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	out := make([]db.Aggregation, 0, len(specs))
	seen := make(map[string]struct{}, len(specs))
	for _, spec := range specs {
		if spec.Field == "" {
			continue
		}
		f, ok := c.catalog.Lookup(spec.Field)
		if !ok {
			return nil, domain.NewUnknownField(spec.Field, "aggregate")
		}

		kind, ok := aggregateKinds[strings.ToLower(strings.TrimSpace(spec.Kind))]
		if !ok {
			logger.FromContext(ctx).Warn("unsupported aggregate type, using sum",
				zap.String("field", spec.Field),
				zap.String("type", spec.Kind),
			)
			kind = db.AggSum
		}

		name := spec.Name()
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		field := f.EngineName()
		if f.Class() == catalog.Text {
			if kind != db.AggValueCount && kind != db.AggCardinality {
				return nil, invalidOperand(f, "aggregate %s requires a numeric or date field", kind)
			}
			field = f.ExactName()
		}
		out = append(out, db.Aggregation{Name: name, Type: kind, Field: field})
	}
	return out, nil
}

type metricValue struct {
	Value *float64 `json:"value"`
}

// Extract collects single-value aggregation results by name. Entries without a
// numeric value are skipped.
func Extract(ctx context.Context, raw map[string]stdjson.RawMessage) map[string]float64 {
	if len(raw) == 0 {
		return nil
	}

	log := logger.FromContext(ctx)
	out := make(map[string]float64, len(raw))
	for name, msg := range raw {
		var mv metricValue
		if err := json.Unmarshal(msg, &mv); err != nil {
			log.Warn("aggregate result is not a metric, skipping", zap.String("name", name), zap.Error(err))
			continue
		}
		if mv.Value == nil {
			log.Warn("aggregate result has no value, skipping", zap.String("name", name))
			continue
		}
		out[name] = *mv.Value
	}
	return out
}
