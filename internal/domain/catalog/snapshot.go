// Package catalog holds the immutable, preprocessed view of items and ratings
// that every recommendation query reads from.
package catalog

import (
	"time"

	"github.com/kailas-cloud/movierec/internal/domain/item"
	"github.com/kailas-cloud/movierec/internal/domain/rating"
)

// Stats summarizes how a snapshot was derived from its raw tables.
type Stats struct {
	RawItems       int
	RawRatings     int
	RatedItems     int
	Items          int
	Ratings        int
	Users          int
	QualityCutoff  float64
	DuplicateItems int
}

// Snapshot is the filtered catalog plus the ratings restricted to it.
// A Snapshot is never mutated after New returns; share it freely across goroutines.
type Snapshot struct {
	items   []item.Item
	ratings []rating.Rating

	byID          map[int64]int
	byTitle       map[string]int
	ratingsByItem map[int64][]int
	ratingsByUser map[int64][]int

	stats    Stats
	loadedAt time.Time
}

// New indexes already filtered items and ratings.
// Every rating must reference an item in items; the preprocessor guarantees that.
func New(items []item.Item, ratings []rating.Rating, stats Stats, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		items:         items,
		ratings:       ratings,
		byID:          make(map[int64]int, len(items)),
		byTitle:       make(map[string]int, len(items)),
		ratingsByItem: make(map[int64][]int, len(items)),
		ratingsByUser: make(map[int64][]int),
		stats:         stats,
		loadedAt:      loadedAt,
	}

	for i := range items {
		s.byID[items[i].ID()] = i
		if _, ok := s.byTitle[items[i].Title()]; !ok {
			s.byTitle[items[i].Title()] = i
		}
	}

	for i, r := range ratings {
		s.ratingsByItem[r.ItemID] = append(s.ratingsByItem[r.ItemID], i)
		s.ratingsByUser[r.UserID] = append(s.ratingsByUser[r.UserID], i)
	}

	s.stats.Items = len(items)
	s.stats.Ratings = len(ratings)
	s.stats.Users = len(s.ratingsByUser)

	return s
}

// Empty returns a snapshot with no items and no ratings.
func Empty() *Snapshot {
	return New(nil, nil, Stats{}, time.Time{})
}

// Items returns the filtered catalog in source order. Callers must not modify it.
func (s *Snapshot) Items() []item.Item { return s.items }

// Len returns the number of catalog items.
func (s *Snapshot) Len() int { return len(s.items) }

// Item looks up a catalog item by id.
func (s *Snapshot) Item(id int64) (item.Item, bool) {
	i, ok := s.byID[id]
	if !ok {
		return item.Item{}, false
	}
	return s.items[i], true
}

// Contains reports whether id is part of the filtered catalog.
func (s *Snapshot) Contains(id int64) bool {
	_, ok := s.byID[id]
	return ok
}

// FirstByTitle returns the first catalog row, in source order, whose normalized
// title equals title exactly.
func (s *Snapshot) FirstByTitle(title string) (item.Item, bool) {
	i, ok := s.byTitle[title]
	if !ok {
		return item.Item{}, false
	}
	return s.items[i], true
}

// Ratings returns the restricted rating table in source order. Callers must not modify it.
func (s *Snapshot) Ratings() []rating.Rating { return s.ratings }

// Rating returns the rating at position idx of the restricted table.
func (s *Snapshot) Rating(idx int) rating.Rating { return s.ratings[idx] }

// RatingsOfItem returns positions (ascending) of the ratings on itemID.
func (s *Snapshot) RatingsOfItem(itemID int64) []int { return s.ratingsByItem[itemID] }

// RatingsOfUser returns positions (ascending) of the ratings by userID.
func (s *Snapshot) RatingsOfUser(userID int64) []int { return s.ratingsByUser[userID] }

// Stats returns derivation counters.
func (s *Snapshot) Stats() Stats { return s.stats }

// LoadedAt returns when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }
