// Package ticker broadcasts simulated stock quote updates to subscribers.
package ticker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esgrid/internal/domain/stock"
	"github.com/kailas-cloud/esgrid/internal/logger"
	"github.com/kailas-cloud/esgrid/internal/metrics"
)

// Defaults for the broadcast loop.
const (
	DefaultInterval   = time.Second
	DefaultBufferSize = 8
)

// Subscription is a live feed of quote batches. Updates is closed on Unsubscribe,
// when the subscriber falls behind, or when the ticker stops.
type Subscription struct {
	ID      string
	Initial []stock.Quote
	Updates <-chan []stock.Quote
}

// Service owns the quote book and its subscribers.
type Service struct {
	interval time.Duration
	buffer   int
	now      func() time.Time

	bookMu sync.Mutex
	book   *stock.Book

	mu      sync.RWMutex
	subs    map[string]chan []stock.Quote
	stopped bool
}

// New creates a ticker over book. A non-positive interval uses DefaultInterval.
func New(book *stock.Book, interval time.Duration) *Service {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Service{
		interval: interval,
		buffer:   DefaultBufferSize,
		now:      time.Now,
		book:     book,
		subs:     make(map[string]chan []stock.Quote),
	}
}

// WithBufferSize configures how many batches a subscriber may lag before it is dropped.
func (s *Service) WithBufferSize(n int) *Service {
	if n > 0 {
		s.buffer = n
	}
	return s
}

// WithClock overrides the clock stamped on quotes.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Run ticks until ctx is cancelled, then closes every subscription.
func (s *Service) Run(ctx context.Context) {
	log := logger.FromContext(ctx)
	t := time.NewTicker(s.interval)
	defer t.Stop()

	log.Info("Stock ticker started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.stop()
			log.Info("Stock ticker stopped")
			return
		case <-t.C:
			s.tick(ctx)
		}
	}
}

// Subscribe registers a subscriber and returns the current quotes.
func (s *Service) Subscribe(ctx context.Context) (Subscription, error) {
	if err := ctx.Err(); err != nil {
		return Subscription{}, fmt.Errorf("subscribe: %w", err)
	}

	id := uuid.NewString()
	ch := make(chan []stock.Quote, s.buffer)

	s.bookMu.Lock()
	initial := s.book.Snapshot()
	s.bookMu.Unlock()

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return Subscription{}, fmt.Errorf("subscribe: ticker stopped")
	}
	s.subs[id] = ch
	s.mu.Unlock()
	metrics.TickerSubscribers.Inc()

	return Subscription{ID: id, Initial: initial, Updates: ch}, nil
}

// Unsubscribe removes a subscriber. Unknown ids are ignored.
func (s *Service) Unsubscribe(id string) {
	s.mu.Lock()
	ch, ok := s.subs[id]
	if ok {
		delete(s.subs, id)
	}
	s.mu.Unlock()

	if ok {
		close(ch)
		metrics.TickerSubscribers.Dec()
	}
}

// Subscribers returns the number of live subscribers.
func (s *Service) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

func (s *Service) tick(ctx context.Context) {
	s.bookMu.Lock()
	quotes := s.book.Tick(s.now())
	s.bookMu.Unlock()

	var slow []string
	s.mu.RLock()
	for id, ch := range s.subs {
		select {
		case ch <- quotes:
		default:
			slow = append(slow, id)
		}
	}
	s.mu.RUnlock()

	for _, id := range slow {
		logger.FromContext(ctx).Warn("Dropping slow ticker subscriber", zap.String("subscriber", id))
		s.Unsubscribe(id)
	}
}

func (s *Service) stop() {
	s.mu.Lock()
	subs := s.subs
	s.subs = make(map[string]chan []stock.Quote)
	s.stopped = true
	s.mu.Unlock()

	for _, ch := range subs {
		close(ch)
		metrics.TickerSubscribers.Dec()
	}
}
