// Package elastic implements db.Store on Elasticsearch through go-elasticsearch.
package elastic

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	jsoniter "github.com/json-iterator/go"

	"github.com/kailas-cloud/esgrid/internal/db"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds connection parameters for an Elasticsearch cluster.
type Config struct {
	Addrs      []string
	Username   string
	Password   string
	MaxRetries int // 0 disables transport retries
	Timeout    time.Duration
}

// Store implements db.Store via the official Elasticsearch client.
// The client is safe for concurrent use.
type Store struct {
	es        *elasticsearch.Client
	transport *http.Transport
}

// NewStore creates an Elasticsearch store.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		MaxIdleConnsPerHost:   32,
		ResponseHeaderTimeout: timeout,
		IdleConnTimeout:       90 * time.Second,
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		Transport:    transport,
		MaxRetries:   cfg.MaxRetries,
		DisableRetry: cfg.MaxRetries <= 0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Store{es: es, transport: transport}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	res, err := s.es.Ping(s.es.Ping.WithContext(ctx))
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	defer drain(res)
	if res.IsError() {
		return &db.Error{Op: db.OpPing, Err: fmt.Errorf("status %d", res.StatusCode)}
	}
	return nil
}

// Close releases idle connections.
func (s *Store) Close() {
	s.transport.CloseIdleConnections()
}

// WaitForReady polls Ping until the cluster responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for elasticsearch: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// engineError is the error object of an Elasticsearch error response.
type engineError struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

func (e *engineError) String() string {
	if e == nil {
		return ""
	}
	if e.Reason == "" {
		return e.Type
	}
	return e.Type + ": " + e.Reason
}

// responseError turns a non-2xx response into an error that keeps the engine's diagnostic.
func responseError(res *esapi.Response) error {
	var body struct {
		Error *engineError `json:"error"`
	}
	raw, _ := io.ReadAll(res.Body)
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != nil {
		return fmt.Errorf("[%d] %s", res.StatusCode, body.Error.String())
	}
	if len(raw) > 0 {
		return fmt.Errorf("[%d] %s", res.StatusCode, truncate(string(raw), 512))
	}
	return fmt.Errorf("[%d] %s", res.StatusCode, http.StatusText(res.StatusCode))
}

func decode(res *esapi.Response, v any) error {
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func drain(res *esapi.Response) {
	if res == nil || res.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
