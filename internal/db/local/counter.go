// Package local provides a process-local identity sequence for single-instance deployments.
package local

import (
	"context"
	"sync"

	"github.com/kailas-cloud/esgrid/internal/db"
)

// Compile-time check: Counter implements db.Counter.
var _ db.Counter = (*Counter)(nil)

// Counter is a mutex-guarded set of named counters.
type Counter struct {
	mu     sync.Mutex
	values map[string]int64
}

// NewCounter creates an empty counter set.
func NewCounter() *Counter {
	return &Counter{values: make(map[string]int64)}
}

// Next returns max(current, floor)+1 and stores it.
func (c *Counter) Next(_ context.Context, key string, floor int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := max(c.values[key], floor) + 1
	c.values[key] = cur
	return cur, nil
}

// Reset overwrites the counter.
func (c *Counter) Reset(_ context.Context, key string, value int64) error {
	c.mu.Lock()
	c.values[key] = value
	c.mu.Unlock()
	return nil
}
