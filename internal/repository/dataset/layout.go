package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/rating"
)

// DefaultKeyPrefix is the prefix datasets are imported under unless configured otherwise.
const DefaultKeyPrefix = "movierec:"

// Layout names the keys a dataset occupies in Redis.
//
//	<prefix>items      LIST of item ids in catalog order
//	<prefix>item:<id>  HASH {title, genres}
//	<prefix>ratings    LIST of "user:item:value" entries in table order
//	<prefix>meta       STRING JSON import summary
type Layout struct {
	prefix string
}

// NewLayout creates a key layout under prefix.
func NewLayout(prefix string) Layout {
	return Layout{prefix: prefix}
}

// ItemsKey returns the item id list key.
func (l Layout) ItemsKey() string { return l.prefix + "items" }

// ItemKey returns the hash key for one item.
func (l Layout) ItemKey(id int64) string { return l.prefix + "item:" + strconv.FormatInt(id, 10) }

// RatingsKey returns the ratings list key.
func (l Layout) RatingsKey() string { return l.prefix + "ratings" }

// MetaKey returns the import summary key.
func (l Layout) MetaKey() string { return l.prefix + "meta" }

// Hash field names for item hashes.
const (
	fieldTitle  = "title"
	fieldGenres = "genres"
)

// EncodeRating renders a rating as a list entry.
func EncodeRating(r rating.Rating) string {
	return strconv.FormatInt(r.UserID, 10) + ":" +
		strconv.FormatInt(r.ItemID, 10) + ":" +
		strconv.FormatFloat(r.Value, 'g', -1, 64)
}

// DecodeRating parses a list entry produced by EncodeRating.
func DecodeRating(s string) (rating.Rating, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return rating.Rating{}, fmt.Errorf("%w: rating entry %q", domain.ErrDatasetInvalid, s)
	}
	user, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return rating.Rating{}, fmt.Errorf("%w: rating entry %q: %w", domain.ErrDatasetInvalid, s, err)
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return rating.Rating{}, fmt.Errorf("%w: rating entry %q: %w", domain.ErrDatasetInvalid, s, err)
	}
	value, err := parseValue(parts[2])
	if err != nil {
		return rating.Rating{}, fmt.Errorf("%w: rating entry %q: %w", domain.ErrDatasetInvalid, s, err)
	}
	return rating.New(user, id, value), nil
}

// parseValue parses a rating value. NaN and infinities are rejected.
func parseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}
