package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"pltcm-dashboard/internal/storage"
)

var ErrNotLoaded = errors.New("dataset not loaded")

type ReportStorage interface {
	GetProduction(ctx context.Context) ([]storage.Coil, error)
	GetStopTimes(ctx context.Context) ([]storage.StopTime, error)
}

// SnapshotService keeps the last fetched production and stop-time datasets
// for the whole process. Readers get copies; Load swaps both at once.
type SnapshotService struct {
	storage ReportStorage
	log     *slog.Logger

	mu         sync.RWMutex
	production []storage.Coil
	stops      []storage.StopTime
	loadedAt   time.Time
}

func NewSnapshotService(storage ReportStorage, log *slog.Logger) *SnapshotService {
	return &SnapshotService{storage: storage, log: log}
}

// Load fetches both datasets concurrently. On failure the previous snapshot
// stays in place.
func (s *SnapshotService) Load(ctx context.Context) error {
	const op = "service.snapshot.Load"

	var (
		production []storage.Coil
		stops      []storage.StopTime
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		production, err = s.storage.GetProduction(gCtx)
		if err != nil {
			return fmt.Errorf("production: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		stops, err = s.storage.GetStopTimes(gCtx)
		if err != nil {
			return fmt.Errorf("stop times: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.log.Error("snapshot load failed", slog.String("op", op), slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	if production == nil {
		production = []storage.Coil{}
	}
	if stops == nil {
		stops = []storage.StopTime{}
	}

	s.mu.Lock()
	s.production = production
	s.stops = stops
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.log.Info("snapshot loaded",
		slog.String("op", op),
		slog.Int("coils", len(production)),
		slog.Int("stops", len(stops)),
	)

	return nil
}

func (s *SnapshotService) Production() ([]storage.Coil, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.production == nil {
		return nil, ErrNotLoaded
	}
	return slices.Clone(s.production), nil
}

func (s *SnapshotService) StopTimes() ([]storage.StopTime, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stops == nil {
		return nil, ErrNotLoaded
	}
	return slices.Clone(s.stops), nil
}

func (s *SnapshotService) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
