// Package bootstrap creates and seeds the inventory index on startup.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esgrid/internal/db"
	"github.com/kailas-cloud/esgrid/internal/domain/bulk"
	dominv "github.com/kailas-cloud/esgrid/internal/domain/inventory"
	"github.com/kailas-cloud/esgrid/internal/logger"
	"github.com/kailas-cloud/esgrid/internal/metrics"
)

// DefaultSeedCount is how many items a fresh index is seeded with.
const DefaultSeedCount = 1000

// Service ensures the index exists and holds seed data.
type Service struct {
	repo        Repository
	gen         Generator
	seq         SequenceResetter
	index       string
	settings    db.IndexSettings
	seedCount   int
	sequenceKey string
}

// New creates a bootstrap service for index.
func New(repo Repository, gen Generator, index string, settings db.IndexSettings) *Service {
	return &Service{
		repo:      repo,
		gen:       gen,
		index:     index,
		settings:  settings,
		seedCount: DefaultSeedCount,
	}
}

// WithSeedCount configures how many items are generated.
func (s *Service) WithSeedCount(n int) *Service {
	if n >= 0 {
		s.seedCount = n
	}
	return s
}

// WithSequence resets the identity sequence under key after seeding.
func (s *Service) WithSequence(seq SequenceResetter, key string) *Service {
	s.seq = seq
	s.sequenceKey = key
	return s
}

// Ensure creates and seeds the index when it is missing. An existing index is left
// untouched. Any error leaves the index unusable and must abort startup.
func (s *Service) Ensure(ctx context.Context) error {
	log := logger.FromContext(ctx).With(zap.String("index", s.index))

	exists, err := s.repo.Exists(ctx, s.index)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		log.Info("Index exists, skipping bootstrap")
		return nil
	}

	items := s.gen.Generate(s.seedCount)
	if s.settings.MaxResultWindow > 0 && s.settings.MaxResultWindow < len(items) {
		return fmt.Errorf("max_result_window %d is smaller than seed count %d",
			s.settings.MaxResultWindow, len(items))
	}

	if err := s.repo.Create(ctx, s.index, s.settings); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			// Another instance created it between the check and here.
			log.Info("Index created concurrently, skipping bootstrap")
			return nil
		}
		return fmt.Errorf("create index: %w", err)
	}
	log.Info("Index created",
		zap.Int("shards", s.settings.Shards),
		zap.Int("replicas", s.settings.Replicas),
		zap.Int("max_result_window", s.settings.MaxResultWindow),
	)

	if len(items) > 0 {
		results, err := s.repo.Load(ctx, s.index, items)
		if err != nil {
			return fmt.Errorf("load seed: %w", err)
		}
		if failed := bulk.Failed(results); len(failed) > 0 {
			return fmt.Errorf("load seed: %d of %d items failed, first %s: %w",
				len(failed), len(results), failed[0].ID(), failed[0].Err())
		}
		metrics.SeededDocumentsTotal.Add(float64(len(results)))
	}

	if err := s.repo.Refresh(ctx, s.index); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	if s.seq != nil {
		last := int64(dominv.FirstSeedID + len(items))
		if err := s.seq.Reset(ctx, s.sequenceKey, last); err != nil {
			return fmt.Errorf("reset sequence: %w", err)
		}
	}

	log.Info("Index seeded", zap.Int("documents", len(items)))
	return nil
}
