package movierec

import (
	"time"

	domcat "github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
)

// Outcome tells whether a resolved seed produced recommendations.
type Outcome string

// Outcome constants.
const (
	OutcomeOK       Outcome = Outcome(recommendation.OK)
	OutcomeNoSignal Outcome = Outcome(recommendation.NoSignal)
)

// Recommendation is one ranked candidate.
type Recommendation struct {
	ItemID int64
	Title  string
	Genres string
	Score  float64
}

// Recommendations is the answer for one seed item, best first.
type Recommendations struct {
	SeedID    int64
	SeedTitle string
	Outcome   Outcome
	Items     []Recommendation
}

// CatalogStats summarizes the catalog currently serving.
type CatalogStats struct {
	RawItems         int
	RawRatings       int
	Items            int
	Ratings          int
	Users            int
	QualityThreshold float64
	LoadedAt         time.Time
}

func fromSet(set recommendation.Set) Recommendations {
	items := make([]Recommendation, len(set.Items))
	for i := range set.Items {
		r := &set.Items[i]
		items[i] = Recommendation{
			ItemID: r.ItemID(),
			Title:  r.Title(),
			Genres: r.Genres(),
			Score:  r.Score(),
		}
	}
	return Recommendations{
		SeedID:    set.SeedID,
		SeedTitle: set.SeedTitle,
		Outcome:   Outcome(set.Outcome),
		Items:     items,
	}
}

func fromSnapshot(snap *domcat.Snapshot) CatalogStats {
	st := snap.Stats()
	return CatalogStats{
		RawItems:         st.RawItems,
		RawRatings:       st.RawRatings,
		Items:            st.Items,
		Ratings:          st.Ratings,
		Users:            st.Users,
		QualityThreshold: st.QualityCutoff,
		LoadedAt:         snap.LoadedAt(),
	}
}
