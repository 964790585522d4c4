package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:          HTTPConfig{Port: 8080},
		Elasticsearch: ElasticsearchConfig{Addrs: []string{"http://localhost:9200"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(_ *Config) {}, false},
		{"invalid port", func(c *Config) { c.HTTP.Port = 0 }, true},
		{"port too large", func(c *Config) { c.HTTP.Port = 70000 }, true},
		{"missing elasticsearch addrs", func(c *Config) { c.Elasticsearch.Addrs = nil }, true},
		{"seed beyond window", func(c *Config) { c.Index.SeedCount = 20000 }, true},
		{"redis without addrs", func(c *Config) { c.Sequence.Driver = "redis" }, true},
		{"redis with addrs", func(c *Config) {
			c.Sequence.Driver = "redis"
			c.Sequence.Addrs = []string{"localhost:6379"}
		}, false},
		{"unknown driver", func(c *Config) { c.Sequence.Driver = "etcd" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Elasticsearch.ReadinessTimeout != 60 {
		t.Errorf("expected ReadinessTimeout=60, got %d", cfg.Elasticsearch.ReadinessTimeout)
	}
	if cfg.Index.Name != "inventory-items" {
		t.Errorf("expected Name=inventory-items, got %q", cfg.Index.Name)
	}
	if cfg.Index.MaxResultWindow != 10000 {
		t.Errorf("expected MaxResultWindow=10000, got %d", cfg.Index.MaxResultWindow)
	}
	if cfg.Index.SeedCount != 1000 {
		t.Errorf("expected SeedCount=1000, got %d", cfg.Index.SeedCount)
	}
	if cfg.Index.BulkBatchSize != 500 {
		t.Errorf("expected BulkBatchSize=500, got %d", cfg.Index.BulkBatchSize)
	}
	if cfg.Index.IdentityRetries != 5 {
		t.Errorf("expected IdentityRetries=5, got %d", cfg.Index.IdentityRetries)
	}
	if cfg.Sequence.Driver != "local" {
		t.Errorf("expected Driver=local, got %q", cfg.Sequence.Driver)
	}
	if cfg.Ticker.IntervalMs != 1000 {
		t.Errorf("expected IntervalMs=1000, got %d", cfg.Ticker.IntervalMs)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Index:    IndexConfig{Name: "items-v2", MaxTake: 50, SeedCount: 10},
		Sequence: SequenceConfig{Driver: "redis", KeyPrefix: "custom:"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Index.Name != "items-v2" || cfg.Index.MaxTake != 50 || cfg.Index.SeedCount != 10 {
		t.Errorf("index overridden: %+v", cfg.Index)
	}
	if cfg.Sequence.Driver != "redis" || cfg.Sequence.KeyPrefix != "custom:" {
		t.Errorf("sequence overridden: %+v", cfg.Sequence)
	}
	if got := cfg.SequenceKey(); got != "custom:seq:items-v2" {
		t.Errorf("SequenceKey() = %q", got)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("ESGRID_TEST_URL", "http://es:9200")

	tests := []struct {
		in   string
		want string
	}{
		{"url: ${ESGRID_TEST_URL}", "url: http://es:9200"},
		{"url: ${ESGRID_TEST_URL:-http://x}", "url: http://es:9200"},
		{"url: ${ESGRID_TEST_UNSET:-http://fallback}", "url: http://fallback"},
		{"url: ${ESGRID_TEST_UNSET}", "url: "},
		{"plain: value", "plain: value"},
	}

	for _, tt := range tests {
		if got := string(expandEnvVars([]byte(tt.in))); got != tt.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := `http:
  port: 9090
elasticsearch:
  addrs: ["${ESGRID_TEST_ES:-http://localhost:9200}"]
index:
  seed_count: 25
`
	if err := os.WriteFile(filepath.Join(dir, "config", "unittest.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("unittest")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d", cfg.HTTP.Port)
	}
	if len(cfg.Elasticsearch.Addrs) != 1 || cfg.Elasticsearch.Addrs[0] != "http://localhost:9200" {
		t.Errorf("addrs = %v", cfg.Elasticsearch.Addrs)
	}
	if cfg.Index.SeedCount != 25 || cfg.Index.MaxTake != 1000 {
		t.Errorf("index = %+v", cfg.Index)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}
