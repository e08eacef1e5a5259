package search

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/kailas-cloud/movierec/internal/domain"
	domcat "github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/domain/item"
)

type mockSnapshots struct {
	snap *domcat.Snapshot
	err  error
}

func (m *mockSnapshots) Snapshot(_ context.Context) (*domcat.Snapshot, error) {
	return m.snap, m.err
}

func catalogOf(titles ...string) *domcat.Snapshot {
	items := make([]item.Item, len(titles))
	for i, title := range titles {
		items[i] = item.New(item.Raw{ID: int64(i + 1), Title: title})
	}
	return domcat.New(items, nil, domcat.Stats{}, time.Time{})
}

func TestTitles_CaseInsensitiveInCatalogOrder(t *testing.T) {
	svc := New(&mockSnapshots{snap: catalogOf("Toy Story (1995)", "Heat (1995)", "Story of Us (1999)")})

	got, err := svc.Titles(context.Background(), "STORY", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Toy Story 1995", "Story of Us 1999"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTitles_LimitClamped(t *testing.T) {
	titles := make([]string, 25)
	for i := range titles {
		titles[i] = "Movie"
	}
	svc := New(&mockSnapshots{snap: catalogOf(titles...)})

	tests := []struct {
		limit int
		want  int
	}{
		{0, MaxLimit},
		{-3, MaxLimit},
		{3, 3},
		{100, MaxLimit},
	}
	for _, tc := range tests {
		got, err := svc.Titles(context.Background(), "", tc.limit)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != tc.want {
			t.Errorf("limit %d: expected %d, got %d", tc.limit, tc.want, len(got))
		}
	}
}

func TestTitles_NoMatch(t *testing.T) {
	svc := New(&mockSnapshots{snap: catalogOf("Heat (1995)")})

	got, err := svc.Titles(context.Background(), "alien", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}

func TestTitles_SnapshotError(t *testing.T) {
	svc := New(&mockSnapshots{err: domain.ErrSnapshotNotReady})

	if _, err := svc.Titles(context.Background(), "x", 1); !errors.Is(err, domain.ErrSnapshotNotReady) {
		t.Fatalf("expected ErrSnapshotNotReady, got %v", err)
	}
}
