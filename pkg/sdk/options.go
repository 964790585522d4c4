package esgrid

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	username string
	password string

	index           string
	shards          int
	replicas        int
	maxResultWindow int
	maxTake         int
	identityRetries int

	seedCount int
	seedValue int64

	redisAddr     string
	redisPassword string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithElasticsearch sets the cluster addresses.
func WithElasticsearch(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = addrs
	})
}

// WithBasicAuth sets cluster credentials.
func WithBasicAuth(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.password = password
	})
}

// WithIndex sets the index name. Default: inventory-items.
func WithIndex(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.index = name
	})
}

// WithShards sets primary shard and replica counts used when EnsureIndex creates the index.
func WithShards(shards, replicas int) Option {
	return optionFunc(func(c *clientConfig) {
		c.shards = shards
		c.replicas = replicas
	})
}

// WithSeed sets how many items EnsureIndex generates for a new index and the
// generator seed. Default: 1000 items.
func WithSeed(count int, seed int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.seedCount = count
		c.seedValue = seed
	})
}

// WithLimits caps page size and the deepest reachable row.
// Defaults: 1000 and 10000.
func WithLimits(maxTake, maxResultWindow int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxTake = maxTake
		c.maxResultWindow = maxResultWindow
	})
}

// WithIdentityRetries sets how many identities Create draws before giving up. Default: 5.
func WithIdentityRetries(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.identityRetries = n
	})
}

// WithRedisSequence issues identities from a shared Redis counter so several
// processes can create items concurrently. Without it the counter is process-local.
func WithRedisSequence(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddr = addr
		c.redisPassword = password
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
