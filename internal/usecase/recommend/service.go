package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/movierec/internal/domain"
	domcat "github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
)

// Service answers recommendation queries against the current snapshot.
type Service struct {
	snapshots SnapshotReader
	scorer    *Scorer
	observer  Observer
}

// New creates a recommendation service.
func New(snapshots SnapshotReader, scorer *Scorer) *Service {
	if scorer == nil {
		scorer = NewScorer()
	}
	return &Service{snapshots: snapshots, scorer: scorer}
}

// WithObserver attaches a query observer.
func (s *Service) WithObserver(o Observer) *Service {
	s.observer = o
	return s
}

// ResolveTitle maps an exact normalized title to the first matching catalog item id.
func ResolveTitle(snap *domcat.Snapshot, title string) (int64, error) {
	it, ok := snap.FirstByTitle(title)
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrTitleNotFound, title)
	}
	return it.ID(), nil
}

// Resolve maps a title to an item id using the current snapshot.
func (s *Service) Resolve(ctx context.Context, title string) (int64, error) {
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return 0, fmt.Errorf("get snapshot: %w", err)
	}
	return ResolveTitle(snap, title)
}

// Recommend resolves title and ranks items co-loved with it.
// A title that resolves but yields no candidates returns a Set with Outcome NoSignal.
func (s *Service) Recommend(ctx context.Context, title string) (recommendation.Set, error) {
	start := time.Now()

	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		s.observe(outcomeError, start)
		return recommendation.Set{}, fmt.Errorf("get snapshot: %w", err)
	}

	seedID, err := ResolveTitle(snap, title)
	if err != nil {
		s.observe(outcomeNotFound, start)
		return recommendation.Set{}, err
	}

	return s.similar(snap, seedID, start), nil
}

// Similar ranks items co-loved with seedID. The id must belong to the filtered catalog.
func (s *Service) Similar(ctx context.Context, seedID int64) (recommendation.Set, error) {
	start := time.Now()

	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		s.observe(outcomeError, start)
		return recommendation.Set{}, fmt.Errorf("get snapshot: %w", err)
	}

	if !snap.Contains(seedID) {
		s.observe(outcomeNotFound, start)
		return recommendation.Set{}, fmt.Errorf("%w: %d", domain.ErrItemNotFound, seedID)
	}

	return s.similar(snap, seedID, start), nil
}

func (s *Service) similar(snap *domcat.Snapshot, seedID int64, start time.Time) recommendation.Set {
	seed, _ := snap.Item(seedID)
	set := recommendation.NewSet(seedID, seed.Title(), s.scorer.FindSimilar(snap, seedID))
	s.observe(string(set.Outcome), start)
	return set
}

func (s *Service) observe(outcome string, start time.Time) {
	if s.observer != nil {
		s.observer.ObserveQuery(outcome, time.Since(start))
	}
}

// IsNotFound reports whether err means the seed could not be resolved.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrTitleNotFound) || errors.Is(err, domain.ErrItemNotFound)
}
