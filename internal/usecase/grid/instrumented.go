package grid

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esgrid/internal/domain"
	"github.com/kailas-cloud/esgrid/internal/domain/grid/request"
	"github.com/kailas-cloud/esgrid/internal/domain/grid/result"
	dominv "github.com/kailas-cloud/esgrid/internal/domain/inventory"
	"github.com/kailas-cloud/esgrid/internal/metrics"
)

// Query outcomes recorded in metrics.
const (
	outcomeOK      = "ok"
	outcomeInvalid = "invalid"
	outcomeError   = "error"
)

// InstrumentedRepository wraps Repository with latency metrics and logging.
type InstrumentedRepository struct {
	inner  Repository
	logger *zap.Logger
}

// NewInstrumentedRepository wraps a repository with observability.
func NewInstrumentedRepository(inner Repository, logger *zap.Logger) *InstrumentedRepository {
	return &InstrumentedRepository{inner: inner, logger: logger}
}

// Query records compile-plus-execute latency by outcome.
func (r *InstrumentedRepository) Query(
	ctx context.Context, req *request.Request,
) (result.Envelope[dominv.Item], error) {
	start := time.Now()
	env, err := r.inner.Query(ctx, req)
	duration := time.Since(start)

	outcome := outcomeOK
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidRequest):
		outcome = outcomeInvalid
	default:
		outcome = outcomeError
		r.logger.Error("Grid query failed",
			zap.Int("skip", req.Skip()),
			zap.Int("take", req.Take()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	}
	metrics.QueryDuration.WithLabelValues(outcome).Observe(duration.Seconds())

	if err != nil {
		return env, fmt.Errorf("instrumented query: %w", err)
	}

	r.logger.Debug("Grid query completed",
		zap.Int("skip", req.Skip()),
		zap.Int("take", req.Take()),
		zap.Int("rows", len(env.Rows())),
		zap.Int64("total", env.TotalCount()),
		zap.Duration("duration", duration),
	)
	return env, nil
}

// Get delegates to the inner repository.
func (r *InstrumentedRepository) Get(ctx context.Context, id int) (dominv.Item, error) {
	return r.inner.Get(ctx, id) //nolint:wrapcheck // transparent decorator
}

// Insert counts the write by status.
func (r *InstrumentedRepository) Insert(ctx context.Context, item *dominv.Item) error {
	return r.observeWrite("insert", r.inner.Insert(ctx, item))
}

// Save counts the write by status.
func (r *InstrumentedRepository) Save(ctx context.Context, item *dominv.Item) error {
	return r.observeWrite("save", r.inner.Save(ctx, item))
}

// Delete counts the write by status.
func (r *InstrumentedRepository) Delete(ctx context.Context, id int) error {
	return r.observeWrite("delete", r.inner.Delete(ctx, id))
}

// Refresh delegates to the inner repository.
func (r *InstrumentedRepository) Refresh(ctx context.Context) error {
	return r.inner.Refresh(ctx) //nolint:wrapcheck // transparent decorator
}

// MaxID delegates to the inner repository.
func (r *InstrumentedRepository) MaxID(ctx context.Context) (int64, error) {
	return r.inner.MaxID(ctx) //nolint:wrapcheck // transparent decorator
}

func (r *InstrumentedRepository) observeWrite(op string, err error) error {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.WritesTotal.WithLabelValues(op, status).Inc()
	return err
}
