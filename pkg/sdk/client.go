package esgrid

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/esgrid/internal/db"
	dbElastic "github.com/kailas-cloud/esgrid/internal/db/elastic"
	dbLocal "github.com/kailas-cloud/esgrid/internal/db/local"
	dbRedis "github.com/kailas-cloud/esgrid/internal/db/redis"
	"github.com/kailas-cloud/esgrid/internal/domain/grid/request"
	"github.com/kailas-cloud/esgrid/internal/domain/grid/result"
	dominv "github.com/kailas-cloud/esgrid/internal/domain/inventory"
	indexrepo "github.com/kailas-cloud/esgrid/internal/repository/index"
	inventoryrepo "github.com/kailas-cloud/esgrid/internal/repository/inventory"
	bootstrapuc "github.com/kailas-cloud/esgrid/internal/usecase/bootstrap"
	griduc "github.com/kailas-cloud/esgrid/internal/usecase/grid"
	healthuc "github.com/kailas-cloud/esgrid/internal/usecase/health"
)

const (
	defaultReadinessTimeout = 30 * time.Second
	defaultSequencePrefix   = "esgrid:seq:"
)

// Internal interfaces for substitution in tests.
type gridUseCase interface {
	Query(ctx context.Context, req request.Request) (result.Envelope[dominv.Item], error)
	Get(ctx context.Context, id int) (dominv.Item, error)
	Create(ctx context.Context, item dominv.Item) (dominv.Item, error)
	Update(ctx context.Context, id int, item dominv.Item) (dominv.Item, error)
	Delete(ctx context.Context, id int) error
	Batch(ctx context.Context, b griduc.Batch) (griduc.BatchResult, error)
}

type bootstrapUseCase interface {
	Ensure(ctx context.Context) error
}

// Client is the esgrid SDK entry point.
type Client struct {
	store     db.Store
	closers   []func()
	grid      gridUseCase
	bootstrap bootstrapUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and waits for the cluster to respond.
// The provided context is used for the initial readiness checks.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		index:           dominv.IndexName,
		shards:          1,
		maxResultWindow: griduc.DefaultMaxResultWindow,
		maxTake:         griduc.DefaultMaxTake,
		identityRetries: griduc.DefaultIdentityRetries,
		seedCount:       bootstrapuc.DefaultSeedCount,
		seedValue:       1,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("esgrid: elasticsearch address required (use WithElasticsearch)")
	}

	obs, err := newObserver(cfg.index, cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := dbElastic.NewStore(dbElastic.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("esgrid: create elasticsearch store: %w", err)
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("esgrid: elasticsearch not ready: %w", err)
	}

	c := &Client{store: store, closers: []func(){store.Close}, obs: obs}

	var (
		counter db.Counter = dbLocal.NewCounter()
		seqPing healthuc.Pinger
	)
	if cfg.redisAddr != "" {
		rs, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    []string{cfg.redisAddr},
			Password: cfg.redisPassword,
		})
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("esgrid: create redis sequence: %w", err)
		}
		c.closers = append(c.closers, rs.Close)
		if err := rs.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			c.Close()
			return nil, fmt.Errorf("esgrid: redis not ready: %w", err)
		}
		counter, seqPing = rs, rs
	}

	c.wire(store, counter, seqPing, cfg)
	return c, nil
}

func (c *Client) wire(store db.Store, counter db.Counter, seqPing healthuc.Pinger, cfg *clientConfig) {
	cat := dominv.NewCatalog()
	seqKey := defaultSequencePrefix + cfg.index

	indexRepo := indexrepo.New(store, cat, indexrepo.DefaultBatchSize)
	c.bootstrap = bootstrapuc.New(indexRepo, dominv.NewGenerator(cfg.seedValue), cfg.index, db.IndexSettings{
		Shards:          cfg.shards,
		Replicas:        cfg.replicas,
		MaxResultWindow: cfg.maxResultWindow,
	}).WithSeedCount(cfg.seedCount).WithSequence(counter, seqKey)

	invRepo := inventoryrepo.New(store, inventoryrepo.NewCompiler(cat), cfg.index)
	c.grid = griduc.New(invRepo, counter, seqKey).
		WithLimits(cfg.maxTake, cfg.maxResultWindow).
		WithIdentityRetries(cfg.identityRetries)

	health := healthuc.New(store).WithIndex(indexRepo, cfg.index)
	if seqPing != nil {
		health = health.WithSequence(seqPing)
	}
	c.healthSvc = health
}

// Close releases all resources.
func (c *Client) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Ping checks cluster connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// EnsureIndex creates and seeds the index if it does not exist yet.
func (c *Client) EnsureIndex(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ensure_index", start, err) }()

	if err = c.bootstrap.Ensure(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	return nil
}

// Inventory returns the inventory item service.
func (c *Client) Inventory() *InventoryService {
	return &InventoryService{svc: c.grid, obs: c.obs}
}
