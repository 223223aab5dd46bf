// Package dataset provides the financial data for a user: it fetches
// from the upstream API, keeps a warm in-memory copy, and falls back
// to the last persisted snapshot when upstream is unreachable.
package dataset

import (
	"context"
	"errors"
	"fmt"

	"trackmyfin/internal/cache"
	"trackmyfin/internal/log"
	"trackmyfin/internal/remote"
	"trackmyfin/internal/storage"
)

// Fetcher retrieves the full dataset from the upstream API.
type Fetcher interface {
	Dataset(ctx context.Context) (remote.Dataset, error)
}

// Snapshots persists datasets per owner.
type Snapshots interface {
	SaveDataset(ctx context.Context, owner string, ds remote.Dataset) error
	LoadDataset(ctx context.Context, owner string) (remote.Dataset, error)
}

// Service serves the current dataset for one owner.
type Service struct {
	owner     string
	fetcher   Fetcher
	snapshots Snapshots
	warm      *cache.TTLCache[remote.Dataset]
	logger    *log.Logger
}

func NewService(owner string, fetcher Fetcher, snapshots Snapshots, warm *cache.TTLCache[remote.Dataset], logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Service{
		owner:     owner,
		fetcher:   fetcher,
		snapshots: snapshots,
		warm:      warm,
		logger:    logger.WithComponent(log.ComponentDataset),
	}
}

func (s *Service) Owner() string {
	return s.owner
}

// Current returns the dataset, preferring the warm cache, then a fresh
// upstream fetch, then the persisted snapshot.
func (s *Service) Current(ctx context.Context) (remote.Dataset, error) {
	if s.warm != nil {
		if ds, ok := s.warm.Get(s.owner); ok {
			return ds, nil
		}
	}

	ds, err := s.fetcher.Dataset(ctx)
	if err != nil {
		return s.fallback(ctx, err)
	}

	if s.snapshots != nil {
		if saveErr := s.snapshots.SaveDataset(ctx, s.owner, ds); saveErr != nil {
			s.logger.WarnContext(ctx, "failed to persist snapshot",
				log.FieldOwner, s.owner, log.FieldError, saveErr.Error())
		}
	}
	if s.warm != nil {
		s.warm.Put(s.owner, ds)
	}

	s.logger.DebugContext(ctx, "dataset refreshed from upstream",
		log.FieldOwner, s.owner, log.FieldRecords, len(ds.Transactions))
	return ds, nil
}

// Refresh drops the warm copy and fetches again.
func (s *Service) Refresh(ctx context.Context) (remote.Dataset, error) {
	if s.warm != nil {
		s.warm.Invalidate(s.owner)
	}
	return s.Current(ctx)
}

func (s *Service) fallback(ctx context.Context, fetchErr error) (remote.Dataset, error) {
	if s.snapshots == nil {
		return remote.Dataset{}, fmt.Errorf("fetch dataset: %w", fetchErr)
	}

	ds, err := s.snapshots.LoadDataset(ctx, s.owner)
	if errors.Is(err, storage.ErrNoSnapshot) {
		return remote.Dataset{}, fmt.Errorf("fetch dataset (no snapshot to fall back on): %w", fetchErr)
	}
	if err != nil {
		return remote.Dataset{}, fmt.Errorf("fetch dataset: %w (snapshot load also failed: %v)", fetchErr, err)
	}

	s.logger.WarnContext(ctx, "upstream unavailable, serving persisted snapshot",
		log.FieldOwner, s.owner,
		log.FieldFetchedAt, ds.FetchedAt,
		log.FieldError, fetchErr.Error())
	return ds, nil
}
