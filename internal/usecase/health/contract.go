package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// SnapshotChecker reports whether a catalog snapshot is serving.
type SnapshotChecker interface {
	Ready() bool
}
