package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/domain"
	domcat "github.com/kailas-cloud/movierec/internal/domain/catalog"
)

// ReloadObserver receives the outcome of every reload attempt. Optional.
type ReloadObserver interface {
	ObserveReload(snap *domcat.Snapshot, took time.Duration, err error)
}

// Holder owns the current Snapshot. Readers get a consistent snapshot with a single
// atomic load; Reload builds a complete replacement before swapping it in.
type Holder struct {
	source   Source
	pre      *Preprocessor
	observer ReloadObserver
	logger   *zap.Logger

	current atomic.Pointer[domcat.Snapshot]
	mu      sync.Mutex // serializes reloads
}

// NewHolder creates a Holder with no snapshot installed.
func NewHolder(source Source, pre *Preprocessor, logger *zap.Logger) *Holder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Holder{source: source, pre: pre, logger: logger}
}

// WithObserver attaches a reload observer (metrics).
func (h *Holder) WithObserver(o ReloadObserver) *Holder {
	h.observer = o
	return h
}

// Snapshot returns the installed snapshot or ErrSnapshotNotReady.
func (h *Holder) Snapshot(_ context.Context) (*domcat.Snapshot, error) {
	s := h.current.Load()
	if s == nil {
		return nil, domain.ErrSnapshotNotReady
	}
	return s, nil
}

// Ready reports whether a snapshot is installed.
func (h *Holder) Ready() bool {
	return h.current.Load() != nil
}

// Install swaps in a prebuilt snapshot.
func (h *Holder) Install(s *domcat.Snapshot) {
	h.current.Store(s)
}

// Reload loads raw tables from the source, preprocesses them and installs the result.
// On failure the previous snapshot stays in place.
func (h *Holder) Reload(ctx context.Context) (*domcat.Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	start := time.Now()
	tables, err := h.source.Load(ctx)
	if err != nil {
		err = fmt.Errorf("load dataset: %w", err)
		h.observe(nil, time.Since(start), err)
		return nil, err
	}

	snap := h.pre.Build(tables)
	h.current.Store(snap)

	took := time.Since(start)
	h.observe(snap, took, nil)
	h.logger.Info("Catalog snapshot installed",
		zap.Int("items", snap.Len()),
		zap.Int("ratings", len(snap.Ratings())),
		zap.Duration("took", took),
	)
	return snap, nil
}

func (h *Holder) observe(snap *domcat.Snapshot, took time.Duration, err error) {
	if h.observer != nil {
		h.observer.ObserveReload(snap, took, err)
	}
}

// ReloadEvery reloads the snapshot on a fixed interval until ctx is done.
// Failures are logged and the previous snapshot keeps serving.
func (h *Holder) ReloadEvery(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := h.Reload(ctx); err != nil {
				h.logger.Error("Periodic catalog reload failed", zap.Error(err))
			}
		}
	}
}
