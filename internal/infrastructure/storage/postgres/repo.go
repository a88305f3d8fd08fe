package postgres

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"

	"vdash/internal/application/port"
	"vdash/internal/domain"
)

type Repo struct {
	db *sql.DB
}

func New(dsn string) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS balance (
  id INT PRIMARY KEY CHECK (id = 1),
  amount DOUBLE PRECISION NOT NULL,
  ts_ms BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS signals (
  id BIGSERIAL PRIMARY KEY,
  signal_id TEXT NOT NULL,
  bot TEXT NOT NULL,
  market TEXT NOT NULL,
  direction TEXT NOT NULL,
  score INT NOT NULL,
  reason TEXT NOT NULL,
  ts_ms BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_signals_ts ON signals(ts_ms);

CREATE TABLE IF NOT EXISTS snapshots (
  id BIGSERIAL PRIMARY KEY,
  ts_ms BIGINT NOT NULL,
  payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(ts_ms);
`)
	return err
}

func (r *Repo) UpsertBalance(ctx context.Context, balance float64, ts int64) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO balance(id, amount, ts_ms) VALUES(1, $1, $2)
ON CONFLICT(id) DO UPDATE SET amount = EXCLUDED.amount, ts_ms = EXCLUDED.ts_ms
`, balance, ts)
	return err
}

func (r *Repo) InsertSignal(ctx context.Context, ts int64, sig domain.Signal) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO signals(signal_id, bot, market, direction, score, reason, ts_ms)
VALUES($1, $2, $3, $4, $5, $6, $7)
`, sig.ID, sig.Bot, sig.Market, string(sig.Direction), sig.Score, sig.Reason, ts)
	return err
}

func (r *Repo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO snapshots(ts_ms, payload) VALUES($1, $2)`, ts, payload)
	return err
}

var _ port.Repository = (*Repo)(nil)
