package dataset

import (
	"context"
	"fmt"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/kailas-cloud/movierec/internal/db"
	catalog "github.com/kailas-cloud/movierec/internal/usecase/catalog"
)

// DefaultBatchSize is the number of entries written per round-trip.
const DefaultBatchSize = 500

// Writer replaces a Redis dataset with raw tables.
type Writer struct {
	store     Storage
	layout    Layout
	batchSize int
	now       func() time.Time
}

// NewWriter creates a writer over the given layout.
func NewWriter(store Storage, layout Layout) *Writer {
	return &Writer{store: store, layout: layout, batchSize: DefaultBatchSize, now: time.Now}
}

// WithBatchSize overrides the batch size.
func (w *Writer) WithBatchSize(n int) *Writer {
	if n > 0 {
		w.batchSize = n
	}
	return w
}

// Write drops the previous dataset, then stores t. Meta is written last, so
// readers reject the dataset until the import completes. Raw titles are stored
// unnormalized; normalization happens when a snapshot is built.
func (w *Writer) Write(ctx context.Context, t catalog.Tables) (Meta, error) {
	if err := w.dropPrevious(ctx); err != nil {
		return Meta{}, fmt.Errorf("drop dataset: %w", err)
	}

	for start := 0; start < len(t.Items); start += w.batchSize {
		end := min(start+w.batchSize, len(t.Items))
		batch := t.Items[start:end]

		hashes := make([]db.HashSetItem, len(batch))
		ids := make([]string, len(batch))
		for i, it := range batch {
			hashes[i] = db.HashSetItem{
				Key:    w.layout.ItemKey(it.ID),
				Fields: map[string]string{fieldTitle: it.Title, fieldGenres: it.Genres},
			}
			ids[i] = strconv.FormatInt(it.ID, 10)
		}
		if err := w.store.HSetMulti(ctx, hashes); err != nil {
			return Meta{}, fmt.Errorf("write items: %w", err)
		}
		if err := w.store.RPush(ctx, w.layout.ItemsKey(), ids...); err != nil {
			return Meta{}, fmt.Errorf("write item order: %w", err)
		}
	}

	for start := 0; start < len(t.Ratings); start += w.batchSize {
		end := min(start+w.batchSize, len(t.Ratings))
		entries := make([]string, 0, end-start)
		for _, r := range t.Ratings[start:end] {
			entries = append(entries, EncodeRating(r))
		}
		if err := w.store.RPush(ctx, w.layout.RatingsKey(), entries...); err != nil {
			return Meta{}, fmt.Errorf("write ratings: %w", err)
		}
	}

	meta := Meta{Items: len(t.Items), Ratings: len(t.Ratings), ImportedAt: w.now().UTC()}
	data, err := json.Marshal(meta)
	if err != nil {
		return Meta{}, fmt.Errorf("encode meta: %w", err)
	}
	if err := w.store.Set(ctx, w.layout.MetaKey(), data); err != nil {
		return Meta{}, fmt.Errorf("write meta: %w", err)
	}
	return meta, nil
}

// dropPrevious deletes the meta key, the item hashes listed by the previous
// import, and the item and rating lists.
func (w *Writer) dropPrevious(ctx context.Context) error {
	if err := w.store.Del(ctx, w.layout.MetaKey()); err != nil {
		return err
	}

	n, err := w.store.LLen(ctx, w.layout.ItemsKey())
	if err != nil {
		return fmt.Errorf("length of previous items: %w", err)
	}
	step := int64(w.batchSize)
	for start := int64(0); start < n; start += step {
		ids, err := w.store.LRange(ctx, w.layout.ItemsKey(), start, start+step-1)
		if err != nil {
			return fmt.Errorf("list previous items: %w", err)
		}
		keys := make([]string, 0, len(ids))
		for _, raw := range ids {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				continue
			}
			keys = append(keys, w.layout.ItemKey(id))
		}
		if err := w.store.Del(ctx, keys...); err != nil {
			return err
		}
	}

	return w.store.Del(ctx, w.layout.ItemsKey(), w.layout.RatingsKey())
}
