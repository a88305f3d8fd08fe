package composite

import (
	"context"

	"vdash/internal/application/port"
	"vdash/internal/domain"
)

// Repo fans every journal write out to all configured backends; the first
// error wins but never stops the remaining writes.
type Repo struct {
	repos []port.Repository
}

func New(repos ...port.Repository) *Repo {
	// nil repos are allowed; filter in constructor for safety
	out := make([]port.Repository, 0, len(repos))
	for _, r := range repos {
		if r != nil {
			out = append(out, r)
		}
	}
	return &Repo{repos: out}
}

func (r *Repo) UpsertBalance(ctx context.Context, balance float64, ts int64) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.UpsertBalance(ctx, balance, ts); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) InsertSignal(ctx context.Context, ts int64, sig domain.Signal) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.InsertSignal(ctx, ts, sig); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.InsertSnapshot(ctx, ts, payload); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) Close() error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ port.Repository = (*Repo)(nil)
