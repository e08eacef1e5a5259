package dataset

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/movierec/internal/db"
	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/item"
	"github.com/kailas-cloud/movierec/internal/domain/rating"
	catalog "github.com/kailas-cloud/movierec/internal/usecase/catalog"
)

// DefaultPageSize is the number of list entries fetched per LRANGE.
const DefaultPageSize = 1000

// Meta is the import summary stored next to a dataset.
type Meta struct {
	Items      int       `json:"items"`
	Ratings    int       `json:"ratings"`
	ImportedAt time.Time `json:"imported_at"`
}

// Storage is the subset of db.Store the Redis source and writer need.
type Storage interface {
	db.HashStore
	db.ListStore
	db.KVStore
}

// RedisSource reads the item and rating tables from Redis/Valkey.
type RedisSource struct {
	store    Storage
	layout   Layout
	pageSize int64
}

var _ catalog.Source = (*RedisSource)(nil)

// NewRedisSource creates a source over the given layout.
func NewRedisSource(store Storage, layout Layout) *RedisSource {
	return &RedisSource{store: store, layout: layout, pageSize: DefaultPageSize}
}

// WithPageSize overrides the LRANGE page size.
func (s *RedisSource) WithPageSize(n int) *RedisSource {
	if n > 0 {
		s.pageSize = int64(n)
	}
	return s
}

// Load reads items and ratings concurrently. The import summary must exist and
// match the list lengths, so a missing, running or failed import is an error.
func (s *RedisSource) Load(ctx context.Context) (catalog.Tables, error) {
	meta, err := s.Meta(ctx)
	if err != nil {
		return catalog.Tables{}, err
	}

	var t catalog.Tables
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		t.Items, err = s.loadItems(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		t.Ratings, err = s.loadRatings(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return catalog.Tables{}, err
	}
	if len(t.Items) != meta.Items || len(t.Ratings) != meta.Ratings {
		return catalog.Tables{}, fmt.Errorf("%w: incomplete import: %d of %d items, %d of %d ratings",
			domain.ErrDatasetInvalid, len(t.Items), meta.Items, len(t.Ratings), meta.Ratings)
	}
	return t, nil
}

// Meta returns the stored import summary.
func (s *RedisSource) Meta(ctx context.Context) (Meta, error) {
	data, err := s.store.Get(ctx, s.layout.MetaKey())
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return Meta{}, fmt.Errorf("%w: no dataset imported", domain.ErrDatasetInvalid)
		}
		return Meta{}, fmt.Errorf("get meta: %w", err)
	}
	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return Meta{}, fmt.Errorf("%w: decode meta: %w", domain.ErrDatasetInvalid, err)
	}
	return m, nil
}

func (s *RedisSource) loadItems(ctx context.Context) ([]item.Raw, error) {
	var out []item.Raw
	err := s.pages(ctx, s.layout.ItemsKey(), func(ids []string) error {
		keys := make([]string, len(ids))
		parsed := make([]int64, len(ids))
		for i, raw := range ids {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: item id %q: %w", domain.ErrDatasetInvalid, raw, err)
			}
			parsed[i] = id
			keys[i] = s.layout.ItemKey(id)
		}

		hashes, err := s.store.HGetAllMulti(ctx, keys)
		if err != nil {
			return fmt.Errorf("get items: %w", err)
		}
		for i, h := range hashes {
			title, ok := h[fieldTitle]
			if !ok {
				return fmt.Errorf("%w: item %d has no hash", domain.ErrDatasetInvalid, parsed[i])
			}
			out = append(out, item.Raw{ID: parsed[i], Title: title, Genres: h[fieldGenres]})
		}
		return nil
	})
	return out, err
}

func (s *RedisSource) loadRatings(ctx context.Context) ([]rating.Rating, error) {
	var out []rating.Rating
	err := s.pages(ctx, s.layout.RatingsKey(), func(entries []string) error {
		for _, e := range entries {
			r, err := DecodeRating(e)
			if err != nil {
				return err
			}
			out = append(out, r)
		}
		return nil
	})
	return out, err
}

// pages walks a list in pageSize chunks.
func (s *RedisSource) pages(ctx context.Context, key string, fn func([]string) error) error {
	n, err := s.store.LLen(ctx, key)
	if err != nil {
		return fmt.Errorf("length of %s: %w", key, err)
	}
	for start := int64(0); start < n; start += s.pageSize {
		page, err := s.store.LRange(ctx, key, start, start+s.pageSize-1)
		if err != nil {
			return fmt.Errorf("range %s[%d]: %w", key, start, err)
		}
		if err := fn(page); err != nil {
			return err
		}
	}
	return nil
}
