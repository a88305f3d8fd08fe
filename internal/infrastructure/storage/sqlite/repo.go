package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"vdash/internal/application/port"
	"vdash/internal/domain"
)

type Repo struct {
	db *sql.DB
}

func New(path string) (*Repo, error) {
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) GetDB() *sql.DB {
	return r.db
}

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS balance (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  amount REAL NOT NULL,
  ts_ms INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS signals (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  signal_id TEXT NOT NULL,
  bot TEXT NOT NULL,
  market TEXT NOT NULL,
  direction TEXT NOT NULL,
  score INTEGER NOT NULL,
  reason TEXT NOT NULL,
  ts_ms INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_signals_ts ON signals(ts_ms);
CREATE INDEX IF NOT EXISTS idx_signals_signal_id ON signals(signal_id);

CREATE TABLE IF NOT EXISTS snapshots (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts_ms INTEGER NOT NULL,
  payload TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(ts_ms);
`)
	return err
}

func (r *Repo) UpsertBalance(ctx context.Context, balance float64, ts int64) error {
	now := time.Now().UnixMilli()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO balance(id, amount, ts_ms, updated_at) VALUES(1, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET amount=excluded.amount, ts_ms=excluded.ts_ms, updated_at=excluded.updated_at
`, balance, ts, now)
	return err
}

func (r *Repo) InsertSignal(ctx context.Context, ts int64, sig domain.Signal) error {
	now := time.Now().UnixMilli()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO signals(signal_id, bot, market, direction, score, reason, ts_ms, created_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
`, sig.ID, sig.Bot, sig.Market, string(sig.Direction), sig.Score, sig.Reason, ts, now)
	return err
}

func (r *Repo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	now := time.Now().UnixMilli()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO snapshots(ts_ms, payload, created_at) VALUES(?, ?, ?)
`, ts, payload, now)
	return err
}

// LatestBalance reads back the journaled balance; zero ok when never written.
func (r *Repo) LatestBalance(ctx context.Context) (float64, bool, error) {
	var amount float64
	err := r.db.QueryRowContext(ctx, `SELECT amount FROM balance WHERE id = 1`).Scan(&amount)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return amount, true, nil
}

var _ port.Repository = (*Repo)(nil)
