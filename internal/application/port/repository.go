package port

import (
	"context"

	"vdash/internal/domain"
)

// Repository journals session observations for external consumers: the
// latest balance, signal arrivals and periodic dashboard snapshots. It never
// records executed trades. All implementations must be safe to call from the
// dashboard loop and must not block it on failure.
type Repository interface {
	// UpsertBalance records the latest authoritative balance.
	UpsertBalance(ctx context.Context, balance float64, ts int64) error

	// InsertSignal records a newly arrived signal.
	InsertSignal(ctx context.Context, ts int64, sig domain.Signal) error

	// InsertSnapshot records a rendered dashboard snapshot line.
	InsertSnapshot(ctx context.Context, ts int64, payload string) error

	// Connection management
	Close() error
}
