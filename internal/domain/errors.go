package domain

import "errors"

var (
	// ErrTitleNotFound signals that a title does not resolve to any catalog item.
	ErrTitleNotFound = errors.New("title not found")
	// ErrItemNotFound signals that an item id is not part of the filtered catalog.
	ErrItemNotFound = errors.New("item not found")
	// ErrSnapshotNotReady signals that no catalog snapshot has been loaded yet.
	ErrSnapshotNotReady = errors.New("catalog snapshot not ready")
	// ErrInvalidInput signals a malformed request value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDatasetInvalid signals malformed raw item or rating data.
	ErrDatasetInvalid = errors.New("invalid dataset")
)
