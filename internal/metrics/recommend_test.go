package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	domcat "github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/domain/item"
	"github.com/kailas-cloud/movierec/internal/domain/rating"
)

func sampleSnapshot(loaded time.Time) *domcat.Snapshot {
	items := []item.Item{
		item.New(item.Raw{ID: 1, Title: "Heat (1995)"}),
		item.New(item.Raw{ID: 2, Title: "Up (2009)"}),
	}
	ratings := []rating.Rating{
		rating.New(10, 1, 5),
		rating.New(10, 2, 4),
		rating.New(11, 2, 3),
	}
	return domcat.New(items, ratings, domcat.Stats{}, loaded)
}

func TestRecorder_ObserveQuery(t *testing.T) {
	rec := NewRecorder()
	before := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("no_signal"))

	rec.ObserveQuery("no_signal", 3*time.Millisecond)

	after := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("no_signal"))
	if after-before != 1 {
		t.Errorf("expected no_signal counter to grow by 1, got %f", after-before)
	}
	if testutil.CollectAndCount(RecommendationDuration) == 0 {
		t.Error("expected duration histogram to be collected")
	}
}

func TestRecorder_ObserveReloadSuccess(t *testing.T) {
	rec := NewRecorder()
	loaded := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	snap := sampleSnapshot(loaded)
	before := testutil.ToFloat64(CatalogReloadsTotal.WithLabelValues("success"))

	rec.ObserveReload(snap, time.Second, nil)

	if got := testutil.ToFloat64(CatalogReloadsTotal.WithLabelValues("success")); got-before != 1 {
		t.Errorf("expected success counter to grow by 1, got %f", got-before)
	}
	if got := testutil.ToFloat64(CatalogItems); got != 2 {
		t.Errorf("expected catalog_items=2, got %f", got)
	}
	if got := testutil.ToFloat64(CatalogRatings); got != 3 {
		t.Errorf("expected catalog_ratings=3, got %f", got)
	}
	if got := testutil.ToFloat64(CatalogUsers); got != 2 {
		t.Errorf("expected catalog_users=2, got %f", got)
	}
	if got := testutil.ToFloat64(CatalogLoadedTimestamp); got != float64(loaded.Unix()) {
		t.Errorf("unexpected loaded timestamp %f", got)
	}
}

func TestRecorder_ObserveReloadErrorKeepsGauges(t *testing.T) {
	rec := NewRecorder()
	rec.ObserveReload(sampleSnapshot(time.Now()), time.Millisecond, nil)
	before := testutil.ToFloat64(CatalogReloadsTotal.WithLabelValues("error"))

	rec.ObserveReload(nil, time.Millisecond, errors.New("redis down"))

	if got := testutil.ToFloat64(CatalogReloadsTotal.WithLabelValues("error")); got-before != 1 {
		t.Errorf("expected error counter to grow by 1, got %f", got-before)
	}
	if got := testutil.ToFloat64(CatalogItems); got != 2 {
		t.Errorf("failed reload must not touch gauges, got %f", got)
	}
}

func TestRegisterRecommendMetrics_Idempotent(t *testing.T) {
	RegisterRecommendMetrics()
	RegisterRecommendMetrics()
}
