package recommend

import (
	"math"
	"sort"

	domcat "github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
)

// Scoring defaults.
const (
	// DefaultFanThreshold is the rating a user must strictly exceed to count as a fan.
	DefaultFanThreshold = 4.0
	// DefaultMinSimilarFraction is the share of seed fans a candidate must strictly exceed.
	DefaultMinSimilarFraction = 0.10
	// DefaultLimit caps the number of recommendations returned.
	DefaultLimit = 10
)

const scorePrecision = 1e4

// Scorer ranks items co-loved with a seed item by lift over the candidate pool baseline.
// A Scorer holds only thresholds; it is safe for concurrent use.
type Scorer struct {
	fanThreshold       float64
	minSimilarFraction float64
	limit              int
}

// NewScorer creates a Scorer with default thresholds.
func NewScorer() *Scorer {
	return &Scorer{
		fanThreshold:       DefaultFanThreshold,
		minSimilarFraction: DefaultMinSimilarFraction,
		limit:              DefaultLimit,
	}
}

// WithFanThreshold overrides the "loved it" rating threshold.
func (s *Scorer) WithFanThreshold(v float64) *Scorer {
	s.fanThreshold = v
	return s
}

// WithMinSimilarFraction overrides the relevance floor.
func (s *Scorer) WithMinSimilarFraction(v float64) *Scorer {
	s.minSimilarFraction = v
	return s
}

// WithLimit overrides the result size cap.
func (s *Scorer) WithLimit(n int) *Scorer {
	if n > 0 {
		s.limit = n
	}
	return s
}

// candidate accumulates counts for one item while scoring.
type candidate struct {
	itemID    int64
	firstSeen int // position of the first qualifying fan rating in the restricted table
	lastFan   int // 1-based index of the last fan counted; dedupes repeated rows
	fans      int
	simFrac   float64
	raters    map[int64]struct{}
	score     float64
}

// FindSimilar returns at most limit recommendations for seedID, best first.
// It returns an empty slice when the seed has no fans or no candidate clears the floor.
func (s *Scorer) FindSimilar(snap *domcat.Snapshot, seedID int64) []recommendation.Recommendation {
	fans := s.seedFans(snap, seedID)
	if len(fans) == 0 {
		return []recommendation.Recommendation{}
	}

	cands := s.fanFavorites(snap, fans)
	if len(cands) == 0 {
		return []recommendation.Recommendation{}
	}

	s.scoreAgainstBaseline(snap, cands)

	sort.Slice(cands, func(i, j int) bool {
		return cands[i].firstSeen < cands[j].firstSeen
	})
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].score > cands[j].score
	})

	if len(cands) > s.limit {
		cands = cands[:s.limit]
	}

	out := make([]recommendation.Recommendation, 0, len(cands))
	for _, c := range cands {
		it, ok := snap.Item(c.itemID)
		if !ok {
			continue
		}
		out = append(out, recommendation.New(c.itemID, it.Title(), it.Genres(), c.score))
	}
	return out
}

// seedFans lists distinct users who rated the seed above the fan threshold, in table order.
func (s *Scorer) seedFans(snap *domcat.Snapshot, seedID int64) []int64 {
	var fans []int64
	seen := make(map[int64]struct{})
	for _, idx := range snap.RatingsOfItem(seedID) {
		r := snap.Rating(idx)
		if !(r.Value > s.fanThreshold) {
			continue
		}
		if _, ok := seen[r.UserID]; ok {
			continue
		}
		seen[r.UserID] = struct{}{}
		fans = append(fans, r.UserID)
	}
	return fans
}

// fanFavorites counts, per item, how many seed fans also loved it and keeps the
// candidates whose fan share clears the relevance floor. Duplicate rows for the
// same fan and item collapse into one.
func (s *Scorer) fanFavorites(snap *domcat.Snapshot, fans []int64) []*candidate {
	byItem := make(map[int64]*candidate)
	for fi, user := range fans {
		for _, idx := range snap.RatingsOfUser(user) {
			r := snap.Rating(idx)
			if !(r.Value > s.fanThreshold) {
				continue
			}
			c, ok := byItem[r.ItemID]
			if !ok {
				c = &candidate{itemID: r.ItemID, firstSeen: idx}
				byItem[r.ItemID] = c
			}
			if idx < c.firstSeen {
				c.firstSeen = idx
			}
			if c.lastFan == fi+1 {
				continue
			}
			c.lastFan = fi + 1
			c.fans++
		}
	}

	total := float64(len(fans))
	out := make([]*candidate, 0, len(byItem))
	for _, c := range byItem {
		c.simFrac = float64(c.fans) / total
		if c.simFrac > s.minSimilarFraction {
			out = append(out, c)
		}
	}
	return out
}

// scoreAgainstBaseline computes, over every rating above the fan threshold on a
// surviving candidate, the share of that population loving each candidate, and
// sets score = simFrac / allFrac.
func (s *Scorer) scoreAgainstBaseline(snap *domcat.Snapshot, cands []*candidate) {
	population := make(map[int64]struct{})
	for _, c := range cands {
		c.raters = make(map[int64]struct{})
		for _, idx := range snap.RatingsOfItem(c.itemID) {
			r := snap.Rating(idx)
			if !(r.Value > s.fanThreshold) {
				continue
			}
			c.raters[r.UserID] = struct{}{}
			population[r.UserID] = struct{}{}
		}
	}

	// Every surviving candidate has at least one fan rating, so population > 0
	// and each allFrac > 0.
	total := float64(len(population))
	for _, c := range cands {
		allFrac := float64(len(c.raters)) / total
		c.score = roundScore(c.simFrac / allFrac)
		c.raters = nil
	}
}

func roundScore(v float64) float64 {
	return math.Round(v*scorePrecision) / scorePrecision
}
