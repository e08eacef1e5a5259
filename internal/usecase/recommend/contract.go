package recommend

import (
	"context"
	"time"

	domcat "github.com/kailas-cloud/movierec/internal/domain/catalog"
)

// SnapshotReader returns the catalog snapshot a query should run against.
type SnapshotReader interface {
	Snapshot(ctx context.Context) (*domcat.Snapshot, error)
}

// Observer records per-query outcomes (metrics). Optional.
type Observer interface {
	ObserveQuery(outcome string, took time.Duration)
}

// Query outcome labels besides recommendation.OK and recommendation.NoSignal.
const (
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)
