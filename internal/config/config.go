package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the esgrid service configuration.
type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Index         IndexConfig         `yaml:"index"`
	Sequence      SequenceConfig      `yaml:"sequence"`
	Ticker        TickerConfig        `yaml:"ticker"`
	Auth          AuthConfig          `yaml:"auth"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// ElasticsearchConfig holds search engine connection settings.
type ElasticsearchConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	MaxRetries       int      `yaml:"max_retries"`
	RequestTimeout   int      `yaml:"request_timeout_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// IndexConfig holds index layout, seeding and paging settings.
type IndexConfig struct {
	Name            string `yaml:"name"`
	Shards          int    `yaml:"shards"`
	Replicas        int    `yaml:"replicas"`
	MaxResultWindow int    `yaml:"max_result_window"`
	SeedCount       int    `yaml:"seed_count"`
	SeedValue       int64  `yaml:"seed_value"`
	BulkBatchSize   int    `yaml:"bulk_batch_size"`
	MaxTake         int    `yaml:"max_take"`
	IdentityRetries int    `yaml:"identity_retries"`
}

// SequenceConfig selects where item identities are issued.
type SequenceConfig struct {
	Driver    string   `yaml:"driver"` // local, redis (default: local)
	Addrs     []string `yaml:"addrs"`
	Password  string   `yaml:"password"`
	KeyPrefix string   `yaml:"key_prefix"`
}

// TickerConfig holds stock ticker settings.
type TickerConfig struct {
	IntervalMs int   `yaml:"interval_ms"`
	Symbols    int   `yaml:"symbols"` // 0 = all known symbols
	Seed       int64 `yaml:"seed"`
}

// Load reads configuration from a YAML file by environment name (local, docker, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Elasticsearch.RequestTimeout <= 0 {
		c.Elasticsearch.RequestTimeout = 30
	}
	if c.Elasticsearch.ReadinessTimeout <= 0 {
		c.Elasticsearch.ReadinessTimeout = 60
	}
	if c.Index.Name == "" {
		c.Index.Name = "inventory-items"
	}
	if c.Index.Shards <= 0 {
		c.Index.Shards = 1
	}
	if c.Index.Replicas < 0 {
		c.Index.Replicas = 0
	}
	if c.Index.MaxResultWindow <= 0 {
		c.Index.MaxResultWindow = 10000
	}
	if c.Index.SeedCount <= 0 {
		c.Index.SeedCount = 1000
	}
	if c.Index.SeedValue == 0 {
		c.Index.SeedValue = 42
	}
	if c.Index.BulkBatchSize <= 0 {
		c.Index.BulkBatchSize = 500
	}
	if c.Index.MaxTake <= 0 {
		c.Index.MaxTake = 1000
	}
	if c.Index.IdentityRetries <= 0 {
		c.Index.IdentityRetries = 5
	}
	if c.Sequence.Driver == "" {
		c.Sequence.Driver = "local"
	}
	if c.Sequence.KeyPrefix == "" {
		c.Sequence.KeyPrefix = "esgrid:"
	}
	if c.Ticker.IntervalMs <= 0 {
		c.Ticker.IntervalMs = 1000
	}
	if c.Ticker.Seed == 0 {
		c.Ticker.Seed = 7
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Elasticsearch.Addrs) == 0 {
		return fmt.Errorf("elasticsearch.addrs is required")
	}
	if c.Index.SeedCount > c.Index.MaxResultWindow {
		return fmt.Errorf("index.seed_count (%d) must not exceed index.max_result_window (%d)",
			c.Index.SeedCount, c.Index.MaxResultWindow)
	}
	switch c.Sequence.Driver {
	case "local":
		// ok
	case "redis":
		if len(c.Sequence.Addrs) == 0 {
			return fmt.Errorf("sequence.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("sequence.driver must be \"local\" or \"redis\", got %q", c.Sequence.Driver)
	}
	return nil
}

// SequenceKey returns the counter key for an index.
func (c *Config) SequenceKey() string {
	return c.Sequence.KeyPrefix + "seq:" + c.Index.Name
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
