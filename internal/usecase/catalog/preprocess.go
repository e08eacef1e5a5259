package catalog

import (
	"math"
	"time"

	"go.uber.org/zap"

	domcat "github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/domain/item"
	"github.com/kailas-cloud/movierec/internal/domain/rating"
)

// DefaultQualityThreshold is the average rating an item must strictly exceed to stay in the catalog.
const DefaultQualityThreshold = 2.8

type aggregate struct {
	sum   float64
	count int
}

func (a aggregate) mean() float64 { return a.sum / float64(a.count) }

// Preprocessor filters raw tables into a Snapshot.
type Preprocessor struct {
	threshold float64
	now       func() time.Time
	logger    *zap.Logger
}

// NewPreprocessor creates a Preprocessor with the default quality threshold.
func NewPreprocessor(logger *zap.Logger) *Preprocessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Preprocessor{threshold: DefaultQualityThreshold, now: time.Now, logger: logger}
}

// WithThreshold overrides the quality threshold.
func (p *Preprocessor) WithThreshold(threshold float64) *Preprocessor {
	p.threshold = threshold
	return p
}

// Threshold returns the quality threshold in use.
func (p *Preprocessor) Threshold() float64 { return p.threshold }

// Build aggregates, filters, restricts and normalizes. An empty catalog is a valid result.
func (p *Preprocessor) Build(t Tables) *domcat.Snapshot {
	averages := averageByItem(t.Ratings)

	kept := make(map[int64]struct{}, len(averages))
	items := make([]item.Item, 0, len(averages))
	duplicates := 0
	for _, raw := range t.Items {
		if _, dup := kept[raw.ID]; dup {
			duplicates++
			continue
		}
		agg, ok := averages[raw.ID]
		if !ok || !(agg.mean() > p.threshold) {
			continue
		}
		kept[raw.ID] = struct{}{}
		items = append(items, item.New(raw))
	}

	ratings := make([]rating.Rating, 0, len(t.Ratings))
	for _, r := range t.Ratings {
		if _, ok := kept[r.ItemID]; ok {
			ratings = append(ratings, r)
		}
	}

	snap := domcat.New(items, ratings, domcat.Stats{
		RawItems:       len(t.Items),
		RawRatings:     len(t.Ratings),
		RatedItems:     len(averages),
		QualityCutoff:  p.threshold,
		DuplicateItems: duplicates,
	}, p.now())

	st := snap.Stats()
	p.logger.Info("Catalog preprocessed",
		zap.Int("raw_items", st.RawItems),
		zap.Int("raw_ratings", st.RawRatings),
		zap.Int("items", st.Items),
		zap.Int("ratings", st.Ratings),
		zap.Int("users", st.Users),
		zap.Int("duplicate_items", st.DuplicateItems),
		zap.Float64("quality_threshold", p.threshold),
	)

	return snap
}

// averageByItem groups the unfiltered ratings by item id. Non-finite values
// do not contribute to the mean; an item with only such values has no mean.
func averageByItem(ratings []rating.Rating) map[int64]aggregate {
	out := make(map[int64]aggregate)
	for _, r := range ratings {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			continue
		}
		a := out[r.ItemID]
		a.sum += r.Value
		a.count++
		out[r.ItemID] = a
	}
	return out
}
