package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/BrainPreserve/new-brain-healthy-meals/internal/refdata"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Snapshot is one immutable load of the reference tables.
type Snapshot struct {
	ID       uuid.UUID
	LoadedAt time.Time
	Catalog  *Catalog
	Tables   map[refdata.TableName]refdata.Table
}

// Service owns the reference data for one process. The tables are loaded
// once, on first use, and shared by every caller afterwards.
type Service struct {
	provider  refdata.Provider
	threshold float64

	flight singleflight.Group
	mu     sync.RWMutex
	snap   *Snapshot
}

// New creates a new Service. threshold is the minimum similarity for fuzzy
// suggestions returned by Resolve.
func New(provider refdata.Provider, threshold float64) *Service {
	return &Service{provider: provider, threshold: threshold}
}

// Loaded returns the current snapshot, or nil before the first successful
// load.
func (s *Service) Loaded() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Load returns the snapshot, loading it if needed. Concurrent callers share a
// single in-flight load. A failed load is not remembered; the next call tries
// again. Canceling ctx stops the wait but not the shared load.
func (s *Service) Load(ctx context.Context) (*Snapshot, error) {
	if snap := s.Loaded(); snap != nil {
		return snap, nil
	}

	ch := s.flight.DoChan("load", func() (any, error) {
		if snap := s.Loaded(); snap != nil {
			return snap, nil
		}
		snap, err := s.load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.snap = snap
		s.mu.Unlock()
		return snap, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) load(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	tables := make([]refdata.Table, len(refdata.AllTables))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range refdata.AllTables {
		i, name := i, name
		g.Go(func() error {
			t, err := s.provider.Fetch(gctx, name)
			if err != nil {
				if name.Optional() && errors.Is(err, refdata.ErrTableNotFound) {
					slog.Warn("optional table missing", "table", name)
					tables[i] = refdata.Table{Name: name}
					return nil
				}
				return &LoadError{Table: name, Err: err}
			}
			t.Name = name
			tables[i] = t.Compact()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("reference data load failed", "error", err)
		return nil, err
	}

	snap := &Snapshot{
		ID:       uuid.New(),
		LoadedAt: time.Now().UTC(),
		Tables:   make(map[refdata.TableName]refdata.Table, len(tables)),
	}
	for _, t := range tables {
		snap.Tables[t.Name] = t
	}
	snap.Catalog = NewCatalog(snap.Tables[refdata.Master])

	slog.Info("reference data loaded",
		"dataset_id", snap.ID,
		"ingredients", snap.Catalog.Len(),
		"duration", time.Since(start),
	)
	for _, name := range refdata.AuxiliaryTables {
		slog.Debug("table loaded", "table", name, "rows", len(snap.Tables[name].Rows))
	}
	return snap, nil
}

// Ingredients lists every canonical ingredient with its aliases.
func (s *Service) Ingredients(ctx context.Context) ([]Entry, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Catalog.Entries(), nil
}

// DeriveIngredients returns the canonical ingredients mentioned in text.
func (s *Service) DeriveIngredients(ctx context.Context, text string) ([]string, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Catalog.DeriveIngredients(text), nil
}

