package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esgrid/internal/config"
	"github.com/kailas-cloud/esgrid/internal/db"
	dbElastic "github.com/kailas-cloud/esgrid/internal/db/elastic"
	dbLocal "github.com/kailas-cloud/esgrid/internal/db/local"
	dbRedis "github.com/kailas-cloud/esgrid/internal/db/redis"
	dominv "github.com/kailas-cloud/esgrid/internal/domain/inventory"
	"github.com/kailas-cloud/esgrid/internal/domain/stock"
	logpkg "github.com/kailas-cloud/esgrid/internal/logger"
	"github.com/kailas-cloud/esgrid/internal/metrics"
	indexrepo "github.com/kailas-cloud/esgrid/internal/repository/index"
	inventoryrepo "github.com/kailas-cloud/esgrid/internal/repository/inventory"
	chiTransport "github.com/kailas-cloud/esgrid/internal/transport/chi"
	bootstrapuc "github.com/kailas-cloud/esgrid/internal/usecase/bootstrap"
	griduc "github.com/kailas-cloud/esgrid/internal/usecase/grid"
	healthuc "github.com/kailas-cloud/esgrid/internal/usecase/health"
	tickeruc "github.com/kailas-cloud/esgrid/internal/usecase/ticker"
	"github.com/kailas-cloud/esgrid/internal/version"
)

func main() {
	// Optional .env for local runs; real environment wins.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting esgrid API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("elasticsearch_addrs", cfg.Elasticsearch.Addrs),
		zap.String("index", cfg.Index.Name),
		zap.String("sequence_driver", cfg.Sequence.Driver),
	)

	store, err := dbElastic.NewStore(dbElastic.Config{
		Addrs:      cfg.Elasticsearch.Addrs,
		Username:   cfg.Elasticsearch.Username,
		Password:   cfg.Elasticsearch.Password,
		MaxRetries: cfg.Elasticsearch.MaxRetries,
		Timeout:    time.Duration(cfg.Elasticsearch.RequestTimeout) * time.Second,
	})
	if err != nil {
		logger.Fatal("Failed to create search engine store", zap.Error(err))
	}
	defer store.Close()

	ctx, stop := context.WithCancel(logpkg.ContextWithLogger(context.Background(), logger))
	defer stop()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Elasticsearch.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Search engine not ready", zap.Error(err))
	}
	logger.Info("Connected to search engine")

	counter, seqPinger, closeSeq := openSequence(ctx, &cfg, logger)
	defer closeSeq()

	// Register metrics explicitly (no init())
	metrics.RegisterGridMetrics()

	// Composition root: one catalog shared by the compiler and the index mapping
	cat := dominv.NewCatalog()

	indexRepo := indexrepo.New(store, cat, cfg.Index.BulkBatchSize)
	bootstrap := bootstrapuc.New(
		indexRepo,
		dominv.NewGenerator(cfg.Index.SeedValue),
		cfg.Index.Name,
		db.IndexSettings{
			Shards:          cfg.Index.Shards,
			Replicas:        cfg.Index.Replicas,
			MaxResultWindow: cfg.Index.MaxResultWindow,
		},
	).WithSeedCount(cfg.Index.SeedCount).WithSequence(counter, cfg.SequenceKey())

	if err := bootstrap.Ensure(ctx); err != nil {
		logger.Fatal("Index bootstrap failed", zap.Error(err))
	}

	invRepo := inventoryrepo.New(store, inventoryrepo.NewCompiler(cat), cfg.Index.Name)
	gridSvc := griduc.New(griduc.NewInstrumentedRepository(invRepo, logger), counter, cfg.SequenceKey()).
		WithLimits(cfg.Index.MaxTake, cfg.Index.MaxResultWindow).
		WithIdentityRetries(cfg.Index.IdentityRetries)

	tickerSvc := tickeruc.New(
		stock.NewBook(cfg.Ticker.Seed, cfg.Ticker.Symbols, time.Now()),
		time.Duration(cfg.Ticker.IntervalMs)*time.Millisecond,
	)
	go tickerSvc.Run(ctx)

	healthSvc := healthuc.New(store).WithIndex(indexRepo, cfg.Index.Name)
	if seqPinger != nil {
		healthSvc = healthSvc.WithSequence(seqPinger)
	}

	server := chiTransport.NewServer(gridSvc, tickerSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	// Stopping the ticker closes open streams so Shutdown does not wait on them.
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openSequence connects the identity sequence. The redis driver also returns a
// pinger for health checks.
func openSequence(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
) (db.Counter, healthuc.Pinger, func()) {
	switch cfg.Sequence.Driver {
	case "redis":
		rs, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Sequence.Addrs,
			Password: cfg.Sequence.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create sequence store", zap.Error(err))
		}
		if err := rs.WaitForReady(ctx, time.Duration(cfg.Elasticsearch.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Sequence store not ready", zap.Error(err))
		}
		logger.Info("Connected to sequence store", zap.Strings("addrs", cfg.Sequence.Addrs))
		return rs, rs, rs.Close
	default:
		logger.Info("Using process-local identity sequence")
		return dbLocal.NewCounter(), nil, func() {}
	}
}
