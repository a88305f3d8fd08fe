package dashboard

import (
	"context"

	"vdash/internal/application/port"
	"vdash/internal/domain"
)

type noopRepo struct{}

// NewNoopRepo returns a journal that discards everything; used when no
// storage backend is enabled.
func NewNoopRepo() port.Repository { return &noopRepo{} }

func (n *noopRepo) UpsertBalance(ctx context.Context, balance float64, ts int64) error {
	return nil
}
func (n *noopRepo) InsertSignal(ctx context.Context, ts int64, sig domain.Signal) error {
	return nil
}
func (n *noopRepo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	return nil
}
func (n *noopRepo) Close() error { return nil }
