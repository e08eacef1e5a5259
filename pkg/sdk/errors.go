package movierec

import "github.com/kailas-cloud/movierec/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrTitleNotFound    = domain.ErrTitleNotFound
	ErrItemNotFound     = domain.ErrItemNotFound
	ErrSnapshotNotReady = domain.ErrSnapshotNotReady
	ErrDatasetInvalid   = domain.ErrDatasetInvalid
)
