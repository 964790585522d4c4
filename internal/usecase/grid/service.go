// Package grid serves grid queries and item writes with read-after-write visibility.
package grid

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esgrid/internal/db"
	"github.com/kailas-cloud/esgrid/internal/domain"
	"github.com/kailas-cloud/esgrid/internal/domain/bulk"
	"github.com/kailas-cloud/esgrid/internal/domain/grid/request"
	"github.com/kailas-cloud/esgrid/internal/domain/grid/result"
	dominv "github.com/kailas-cloud/esgrid/internal/domain/inventory"
	"github.com/kailas-cloud/esgrid/internal/logger"
	"github.com/kailas-cloud/esgrid/internal/metrics"
)

// Defaults for query windowing and identity assignment.
const (
	DefaultMaxTake         = 1000
	DefaultMaxResultWindow = 10000
	DefaultIdentityRetries = 5
	MaxBatchSize           = 1000
)

// Batch is a grid batch edit.
type Batch struct {
	Added   []dominv.Item
	Changed []dominv.Item
	Deleted []int
}

// BatchResult carries the stored items and a per-item outcome for every change.
type BatchResult struct {
	Added   []dominv.Item
	Changed []dominv.Item
	Deleted []int
	Results []bulk.Result
}

// Service handles grid reads and writes.
type Service struct {
	repo            Repository
	seq             Sequence
	seqKey          string
	maxTake         int
	maxResultWindow int
	identityRetries int
}

// New creates a grid service. Identities are drawn from seq under seqKey.
func New(repo Repository, seq Sequence, seqKey string) *Service {
	return &Service{
		repo:            repo,
		seq:             seq,
		seqKey:          seqKey,
		maxTake:         DefaultMaxTake,
		maxResultWindow: DefaultMaxResultWindow,
		identityRetries: DefaultIdentityRetries,
	}
}

// WithLimits configures the page cap and the engine result window.
func (s *Service) WithLimits(maxTake, maxResultWindow int) *Service {
	if maxTake > 0 {
		s.maxTake = maxTake
	}
	if maxResultWindow > 0 {
		s.maxResultWindow = maxResultWindow
	}
	return s
}

// WithIdentityRetries configures how many identities are drawn before giving up.
func (s *Service) WithIdentityRetries(n int) *Service {
	if n > 0 {
		s.identityRetries = n
	}
	return s
}

// Query resolves the page window and runs the request. take=0 returns as many
// rows as the window allows.
func (s *Service) Query(ctx context.Context, req request.Request) (result.Envelope[dominv.Item], error) {
	skip, take := req.Skip(), req.Take()
	if skip >= s.maxResultWindow {
		return result.Envelope[dominv.Item]{}, domain.InvalidRequestf(
			"skip %d is beyond the result window of %d", skip, s.maxResultWindow)
	}
	if take == 0 || take > s.maxTake {
		take = s.maxTake
	}
	take = min(take, s.maxResultWindow-skip)

	page := req.WithPage(skip, take)
	env, err := s.repo.Query(ctx, &page)
	if err != nil {
		return result.Envelope[dominv.Item]{}, fmt.Errorf("query: %w", err)
	}
	return env, nil
}

// Get returns one item by identity.
func (s *Service) Get(ctx context.Context, id int) (dominv.Item, error) {
	if id <= 0 {
		return dominv.Item{}, domain.InvalidRequestf("itemId must be positive")
	}
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return dominv.Item{}, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// Create stores a new item and makes it visible to search before returning.
// Items without a positive itemId get one assigned.
func (s *Service) Create(ctx context.Context, item dominv.Item) (dominv.Item, error) {
	stored, err := s.create(ctx, item)
	if err != nil {
		return dominv.Item{}, err
	}
	s.refresh(ctx)
	return stored, nil
}

// Update replaces the item stored under id.
func (s *Service) Update(ctx context.Context, id int, item dominv.Item) (dominv.Item, error) {
	stored, err := s.update(ctx, id, item)
	if err != nil {
		return dominv.Item{}, err
	}
	s.refresh(ctx)
	return stored, nil
}

// Delete removes an item. Deleting a missing item succeeds.
func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.delete(ctx, id); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

// Batch applies adds, changes and deletes item by item and refreshes once.
func (s *Service) Batch(ctx context.Context, b Batch) (BatchResult, error) {
	total := len(b.Added) + len(b.Changed) + len(b.Deleted)
	if total > MaxBatchSize {
		return BatchResult{}, domain.InvalidRequestf("batch size %d exceeds %d", total, MaxBatchSize)
	}

	out := BatchResult{Results: make([]bulk.Result, 0, total)}
	written := 0

	for _, item := range b.Added {
		stored, err := s.create(ctx, item)
		if err != nil {
			out.Results = append(out.Results, bulk.NewError(item.DocumentID(), err))
			continue
		}
		out.Added = append(out.Added, stored)
		out.Results = append(out.Results, bulk.NewOK(stored.DocumentID()))
		written++
	}
	for _, item := range b.Changed {
		stored, err := s.update(ctx, item.ItemID, item)
		if err != nil {
			out.Results = append(out.Results, bulk.NewError(item.DocumentID(), err))
			continue
		}
		out.Changed = append(out.Changed, stored)
		out.Results = append(out.Results, bulk.NewOK(stored.DocumentID()))
		written++
	}
	for _, id := range b.Deleted {
		docID := strconv.Itoa(id)
		if err := s.delete(ctx, id); err != nil {
			out.Results = append(out.Results, bulk.NewError(docID, err))
			continue
		}
		out.Deleted = append(out.Deleted, id)
		out.Results = append(out.Results, bulk.NewOK(docID))
		written++
	}

	if written > 0 {
		s.refresh(ctx)
	}
	return out, nil
}

func (s *Service) create(ctx context.Context, item dominv.Item) (dominv.Item, error) {
	if err := item.Validate(); err != nil {
		return dominv.Item{}, fmt.Errorf("validate item: %w: %w", domain.ErrInvalidRequest, err)
	}

	if item.ItemID > 0 {
		if err := s.repo.Insert(ctx, &item); err != nil {
			if errors.Is(err, db.ErrConflict) {
				return dominv.Item{}, fmt.Errorf("item %d: %w", item.ItemID, domain.ErrAlreadyExists)
			}
			return dominv.Item{}, fmt.Errorf("create item: %w", err)
		}
		return item, nil
	}

	for attempt := 1; attempt <= s.identityRetries; attempt++ {
		id, err := s.nextID(ctx)
		if err != nil {
			return dominv.Item{}, err
		}
		item.ItemID = id

		err = s.repo.Insert(ctx, &item)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, db.ErrConflict) {
			return dominv.Item{}, fmt.Errorf("create item: %w", err)
		}
		metrics.IdentityConflictsTotal.Inc()
		logger.FromContext(ctx).Warn("Identity conflict, drawing again",
			zap.Int("item_id", id),
			zap.Int("attempt", attempt),
		)
	}
	return dominv.Item{}, fmt.Errorf("after %d attempts: %w", s.identityRetries, domain.ErrIdentityExhausted)
}

// nextID draws an identity above both the sequence and the highest stored identity.
func (s *Service) nextID(ctx context.Context) (int, error) {
	maxID, err := s.repo.MaxID(ctx)
	if err != nil {
		return 0, fmt.Errorf("read max identity: %w", err)
	}
	id, err := s.seq.Next(ctx, s.seqKey, max(maxID, dominv.FirstSeedID))
	if err != nil {
		return 0, fmt.Errorf("next identity: %w", err)
	}
	return int(id), nil
}

func (s *Service) update(ctx context.Context, id int, item dominv.Item) (dominv.Item, error) {
	if id <= 0 {
		return dominv.Item{}, domain.InvalidRequestf("itemId must be positive")
	}
	if item.ItemID != 0 && item.ItemID != id {
		return dominv.Item{}, domain.InvalidRequestf("itemId %d does not match %d", item.ItemID, id)
	}
	item.ItemID = id
	if err := item.Validate(); err != nil {
		return dominv.Item{}, fmt.Errorf("validate item: %w: %w", domain.ErrInvalidRequest, err)
	}
	if err := s.repo.Save(ctx, &item); err != nil {
		return dominv.Item{}, fmt.Errorf("update item: %w", err)
	}
	return item, nil
}

func (s *Service) delete(ctx context.Context, id int) error {
	if id <= 0 {
		return domain.InvalidRequestf("itemId must be positive")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// refresh makes the preceding write visible. The write already succeeded, so a
// failure only delays visibility.
func (s *Service) refresh(ctx context.Context) {
	if err := s.repo.Refresh(ctx); err != nil {
		metrics.RefreshFailuresTotal.Inc()
		logger.FromContext(ctx).Warn("Refresh after write failed", zap.Error(err))
	}
}
