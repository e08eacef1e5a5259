package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/item"
	"github.com/kailas-cloud/movierec/internal/domain/rating"
	catalog "github.com/kailas-cloud/movierec/internal/usecase/catalog"
)

// Column names expected in the CSV headers.
const (
	colItemID = "movieId"
	colTitle  = "title"
	colGenres = "genres"
	colUserID = "userId"
	colRating = "rating"
)

// CSVSource reads the item and rating tables from two CSV files.
type CSVSource struct {
	itemsPath   string
	ratingsPath string
}

var _ catalog.Source = (*CSVSource)(nil)

// NewCSVSource creates a source over movies and ratings CSV files.
func NewCSVSource(itemsPath, ratingsPath string) *CSVSource {
	return &CSVSource{itemsPath: itemsPath, ratingsPath: ratingsPath}
}

// Load reads both files concurrently.
func (s *CSVSource) Load(ctx context.Context) (catalog.Tables, error) {
	var t catalog.Tables
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		f, err := os.Open(filepath.Clean(s.itemsPath))
		if err != nil {
			return fmt.Errorf("open items: %w", err)
		}
		defer f.Close()
		t.Items, err = ReadItems(ctx, f)
		if err != nil {
			return fmt.Errorf("%s: %w", s.itemsPath, err)
		}
		return nil
	})

	g.Go(func() error {
		f, err := os.Open(filepath.Clean(s.ratingsPath))
		if err != nil {
			return fmt.Errorf("open ratings: %w", err)
		}
		defer f.Close()
		t.Ratings, err = ReadRatings(ctx, f)
		if err != nil {
			return fmt.Errorf("%s: %w", s.ratingsPath, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return catalog.Tables{}, err
	}
	return t, nil
}

// ReadItems parses an items CSV (movieId,title,genres). A missing genres column or
// empty genres cell yields empty genres.
func ReadItems(ctx context.Context, r io.Reader) ([]item.Raw, error) {
	var out []item.Raw
	err := readCSV(ctx, r, []string{colItemID, colTitle}, func(line int, get func(string) string) error {
		id, err := strconv.ParseInt(get(colItemID), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: line %d: %s: %w", domain.ErrDatasetInvalid, line, colItemID, err)
		}
		out = append(out, item.Raw{ID: id, Title: get(colTitle), Genres: get(colGenres)})
		return nil
	})
	return out, err
}

// ReadRatings parses a ratings CSV (userId,movieId,rating[,timestamp]).
func ReadRatings(ctx context.Context, r io.Reader) ([]rating.Rating, error) {
	var out []rating.Rating
	err := readCSV(ctx, r, []string{colUserID, colItemID, colRating}, func(line int, get func(string) string) error {
		user, err := strconv.ParseInt(get(colUserID), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: line %d: %s: %w", domain.ErrDatasetInvalid, line, colUserID, err)
		}
		id, err := strconv.ParseInt(get(colItemID), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: line %d: %s: %w", domain.ErrDatasetInvalid, line, colItemID, err)
		}
		value, err := parseValue(get(colRating))
		if err != nil {
			return fmt.Errorf("%w: line %d: %s: %w", domain.ErrDatasetInvalid, line, colRating, err)
		}
		out = append(out, rating.New(user, id, value))
		return nil
	})
	return out, err
}

// ctxCheckEvery bounds how many rows are parsed between cancellation checks.
const ctxCheckEvery = 10000

// readCSV locates columns by header name and calls row for every record.
func readCSV(
	ctx context.Context, r io.Reader, required []string,
	row func(line int, get func(string) string) error,
) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: missing header", domain.ErrDatasetInvalid)
		}
		return fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return fmt.Errorf("%w: missing column %q", domain.ErrDatasetInvalid, name)
		}
	}

	var rec []string
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	for line := 2; ; line++ {
		if line%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		rec, err = cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := row(line, get); err != nil {
			return err
		}
	}
}
