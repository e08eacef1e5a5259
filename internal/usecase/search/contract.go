package search

import (
	"context"

	domcat "github.com/kailas-cloud/movierec/internal/domain/catalog"
)

// SnapshotReader returns the catalog snapshot to search.
type SnapshotReader interface {
	Snapshot(ctx context.Context) (*domcat.Snapshot, error)
}
