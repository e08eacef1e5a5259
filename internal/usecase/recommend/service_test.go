package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/movierec/internal/domain"
	domcat "github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/domain/item"
	"github.com/kailas-cloud/movierec/internal/domain/rating"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
)

// --- Mocks ---

type mockSnapshots struct {
	snap *domcat.Snapshot
	err  error
}

func (m *mockSnapshots) Snapshot(_ context.Context) (*domcat.Snapshot, error) {
	return m.snap, m.err
}

type mockObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (m *mockObserver) ObserveQuery(outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

// --- Helpers ---

func titledSnapshot() *domcat.Snapshot {
	items := []item.Item{
		item.New(item.Raw{ID: 1, Title: "Toy Story (1995)", Genres: "Animation"}),
		item.New(item.Raw{ID: 2, Title: "Heat (1995)", Genres: "Crime"}),
		item.New(item.Raw{ID: 3, Title: "Lonely (2000)"}),
		item.New(item.Raw{ID: 4, Title: "Toy Story 1995", Genres: "Remake"}),
	}
	ratings := []rating.Rating{
		rating.New(1, 1, 5),
		rating.New(1, 2, 5),
		rating.New(2, 3, 3),
	}
	return domcat.New(items, ratings, domcat.Stats{}, time.Time{})
}

// --- Tests ---

func TestResolveTitle_Found(t *testing.T) {
	id, err := ResolveTitle(titledSnapshot(), "Heat 1995")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 2 {
		t.Errorf("expected 2, got %d", id)
	}
}

func TestResolveTitle_FirstMatchWins(t *testing.T) {
	// Items 1 and 4 normalize to the same title.
	id, err := ResolveTitle(titledSnapshot(), "Toy Story 1995")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 1 {
		t.Errorf("expected first match 1, got %d", id)
	}
}

func TestResolveTitle_NotFound(t *testing.T) {
	for _, title := range []string{"Toy Story (1995)", "toy story 1995", "", "Nope"} {
		_, err := ResolveTitle(titledSnapshot(), title)
		if !errors.Is(err, domain.ErrTitleNotFound) {
			t.Errorf("%q: expected ErrTitleNotFound, got %v", title, err)
		}
	}
}

func TestRecommend_OK(t *testing.T) {
	obs := &mockObserver{}
	svc := New(&mockSnapshots{snap: titledSnapshot()}, nil).WithObserver(obs)

	set, err := svc.Recommend(context.Background(), "Toy Story 1995")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Outcome != recommendation.OK {
		t.Errorf("expected OK, got %s", set.Outcome)
	}
	if set.SeedID != 1 || set.SeedTitle != "Toy Story 1995" {
		t.Errorf("unexpected seed: %d %q", set.SeedID, set.SeedTitle)
	}
	if len(set.Items) != 2 || set.Items[1].ItemID() != 2 {
		t.Errorf("unexpected items: %+v", set.Items)
	}
	if len(obs.outcomes) != 1 || obs.outcomes[0] != "ok" {
		t.Errorf("unexpected observed outcomes: %v", obs.outcomes)
	}
}

func TestRecommend_NoSignalIsNotAnError(t *testing.T) {
	obs := &mockObserver{}
	svc := New(&mockSnapshots{snap: titledSnapshot()}, nil).WithObserver(obs)

	set, err := svc.Recommend(context.Background(), "Lonely 2000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Outcome != recommendation.NoSignal {
		t.Errorf("expected NoSignal, got %s", set.Outcome)
	}
	if set.Items == nil || len(set.Items) != 0 {
		t.Errorf("expected empty non-nil items, got %v", set.Items)
	}
	if obs.outcomes[0] != "no_signal" {
		t.Errorf("expected no_signal observation, got %v", obs.outcomes)
	}
}

func TestRecommend_TitleNotFound(t *testing.T) {
	obs := &mockObserver{}
	svc := New(&mockSnapshots{snap: titledSnapshot()}, nil).WithObserver(obs)

	_, err := svc.Recommend(context.Background(), "Unknown Movie")
	if !errors.Is(err, domain.ErrTitleNotFound) {
		t.Fatalf("expected ErrTitleNotFound, got %v", err)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should report true")
	}
	if obs.outcomes[0] != "not_found" {
		t.Errorf("expected not_found observation, got %v", obs.outcomes)
	}
}

func TestRecommend_SnapshotNotReady(t *testing.T) {
	obs := &mockObserver{}
	svc := New(&mockSnapshots{err: domain.ErrSnapshotNotReady}, nil).WithObserver(obs)

	_, err := svc.Recommend(context.Background(), "Heat 1995")
	if !errors.Is(err, domain.ErrSnapshotNotReady) {
		t.Fatalf("expected ErrSnapshotNotReady, got %v", err)
	}
	if IsNotFound(err) {
		t.Error("snapshot error must not look like not found")
	}
	if obs.outcomes[0] != "error" {
		t.Errorf("expected error observation, got %v", obs.outcomes)
	}
}

func TestSimilar_ByID(t *testing.T) {
	svc := New(&mockSnapshots{snap: titledSnapshot()}, NewScorer().WithLimit(1))

	set, err := svc.Similar(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.SeedTitle != "Heat 1995" {
		t.Errorf("unexpected seed title %q", set.SeedTitle)
	}
	if len(set.Items) != 1 {
		t.Errorf("expected limit 1, got %d", len(set.Items))
	}
}

func TestSimilar_UnknownID(t *testing.T) {
	svc := New(&mockSnapshots{snap: titledSnapshot()}, nil)

	_, err := svc.Similar(context.Background(), 99)
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should report true")
	}
}

func TestResolve(t *testing.T) {
	svc := New(&mockSnapshots{snap: titledSnapshot()}, nil)

	id, err := svc.Resolve(context.Background(), "Lonely 2000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 3 {
		t.Errorf("expected 3, got %d", id)
	}
}
