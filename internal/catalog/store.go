// internal/catalog/store.go
//
// Store lazily loads the video catalog and publishes it as an immutable
// Snapshot.
//
// Context
// -------
// The whole catalog is one small JSON document.  It is fetched once,
// sorted, indexed, and then only read.  Handlers call EnsureLoaded on
// every request; after the first success that call is a single atomic
// load.
//
// Workflow
// --------
//   EnsureLoaded
//     ├─ snapshot present?  → return nil
//     └─ singleflight "catalog"
//          ├─ double-check after the barrier
//          ├─ Source.Fetch → Decode → sort → index
//          └─ publish Snapshot, update metrics
//
// Notes
// -----
// • Failures are not remembered.  The next EnsureLoaded tries again, which
//   is what a visitor refreshing the page expects.
// • The fetch runs detached from the caller's cancellation so a visitor
//   closing the tab does not fail the load shared by everyone else.  The
//   Source applies its own timeout.

package catalog

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ambambokili/kili/internal/metrics"
	"github.com/ambambokili/kili/internal/slug"
)

// Source delivers the raw catalog document.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	Name() string
}

// Store is created empty and populated once by EnsureLoaded.
type Store struct {
	src  Source
	sfg  singleflight.Group
	snap atomic.Pointer[Snapshot]
}

// NewStore returns an empty Store backed by src.
func NewStore(src Source) *Store {
	return &Store{src: src}
}

// EnsureLoaded populates the store if it is not populated yet.  It returns
// nil when data is available and a *LoadFailure otherwise.
func (s *Store) EnsureLoaded(ctx context.Context) error {
	if s.snap.Load() != nil {
		return nil
	}

	_, err, _ := s.sfg.Do("catalog", func() (interface{}, error) {
		// Double-check after singleflight barrier.
		if s.snap.Load() != nil {
			return nil, nil
		}
		snap, err := s.load(context.WithoutCancel(ctx))
		if err != nil {
			metrics.CatalogLoadErrorsTotal.Inc()
			zap.S().Errorw("catalog load failed", "source", s.src.Name(), "err", err)
			return nil, err
		}
		s.snap.Store(snap)
		metrics.CatalogLoadTotal.Inc()
		metrics.CatalogVideos.Set(float64(len(snap.videos)))
		metrics.CatalogCategories.Set(float64(len(snap.order)))
		zap.S().Infow("catalog loaded",
			"source", s.src.Name(),
			"videos", len(snap.videos),
			"categories", len(snap.order))
		return nil, nil
	})
	return err
}

// Loaded reports whether a snapshot has been published.
func (s *Store) Loaded() bool { return s.snap.Load() != nil }

// Snapshot returns the published view, or an empty one before the first
// successful load.
func (s *Store) Snapshot() *Snapshot {
	if snap := s.snap.Load(); snap != nil {
		return snap
	}
	return emptySnapshot
}

func (s *Store) load(ctx context.Context) (*Snapshot, error) {
	data, err := s.src.Fetch(ctx)
	if err != nil {
		return nil, &LoadFailure{Source: s.src.Name(), Err: err}
	}
	videos, err := Decode(data)
	if err != nil {
		return nil, &LoadFailure{Source: s.src.Name(), Err: err}
	}
	snap := NewSnapshot(videos)
	if c := slug.Collisions(snap.order); len(c) > 0 {
		for _, key := range slug.Keys(c) {
			zap.S().Warnw("category slug collision", "slug", key, "categories", c[key])
		}
	}
	return snap, nil
}

// NewSnapshot sorts videos newest first and builds the category index.
// The input slice is copied, not modified.
func NewSnapshot(videos []Video) *Snapshot {
	sorted := make([]Video, len(videos))
	copy(sorted, videos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Published.Time.After(sorted[j].Published.Time)
	})

	snap := &Snapshot{
		videos:   sorted,
		bySlug:   make(map[string]int, len(sorted)),
		index:    make(map[string][]Video),
		loadedAt: time.Now(),
	}
	for i, v := range sorted {
		if _, dup := snap.bySlug[v.Slug]; !dup {
			snap.bySlug[v.Slug] = i
		}
		seen := make(map[string]struct{}, len(v.Categories))
		for _, c := range v.Categories {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			if _, ok := snap.index[c]; !ok {
				snap.order = append(snap.order, c)
			}
			snap.index[c] = append(snap.index[c], v)
		}
	}
	return snap
}
