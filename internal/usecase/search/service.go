package search

import (
	"context"
	"fmt"
	"strings"
)

// MaxLimit caps autocomplete suggestions.
const MaxLimit = 10

// Service suggests catalog titles for a partial query.
type Service struct {
	snapshots SnapshotReader
}

// New creates an autocomplete service.
func New(snapshots SnapshotReader) *Service {
	return &Service{snapshots: snapshots}
}

// Titles returns up to limit normalized titles containing query (case-insensitive),
// in catalog order. An empty query matches every title. limit <= 0 or above
// MaxLimit is clamped to MaxLimit.
func (s *Service) Titles(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 || limit > MaxLimit {
		limit = MaxLimit
	}

	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	needle := strings.ToLower(query)
	out := make([]string, 0, limit)
	for _, it := range snap.Items() {
		if len(out) == limit {
			break
		}
		if strings.Contains(strings.ToLower(it.Title()), needle) {
			out = append(out, it.Title())
		}
	}
	return out, nil
}
