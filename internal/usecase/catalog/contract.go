package catalog

import (
	"context"

	"github.com/kailas-cloud/movierec/internal/domain/item"
	"github.com/kailas-cloud/movierec/internal/domain/rating"
)

// Tables are the raw item and rating tables as materialized by a source.
type Tables struct {
	Items   []item.Raw
	Ratings []rating.Rating
}

// Source materializes raw tables (CSV files, Redis, ...).
type Source interface {
	Load(ctx context.Context) (Tables, error)
}
