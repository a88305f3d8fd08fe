package container

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"vdash/internal/domain"
	"vdash/internal/infrastructure/config"
)

func TestContainerSQLiteOnly(t *testing.T) {
	cfg := &config.Config{}
	cfg.SQLite.Enabled = true
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "vdash.db")

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("container init failed: %v", err)
	}
	defer c.Close()

	repo := c.Repository()
	if repo == nil {
		t.Fatal("repository should be available with sqlite enabled")
	}

	ctx := context.Background()
	if err := repo.UpsertBalance(ctx, 1000, time.Now().UnixMilli()); err != nil {
		t.Fatalf("upsert through container repo failed: %v", err)
	}
	if err := repo.InsertSignal(ctx, time.Now().UnixMilli(), domain.Signal{ID: "sig-1"}); err != nil {
		t.Fatalf("insert signal through container repo failed: %v", err)
	}

	amount, ok, err := c.SQLiteRepo().LatestBalance(ctx)
	if err != nil || !ok || amount != 1000 {
		t.Errorf("balance read back = %v ok=%v err=%v", amount, ok, err)
	}
}

func TestContainerNoStorage(t *testing.T) {
	c, err := New(&config.Config{})
	if err != nil {
		t.Fatalf("container init failed: %v", err)
	}
	defer c.Close()

	// 没有启用任何存储：由调用方决定用 noop 兜底
	if c.Repository() != nil {
		t.Error("repository should be nil with no storage enabled")
	}
}

// Close 幂等：重复调用不报错
func TestContainerCloseIdempotent(t *testing.T) {
	cfg := &config.Config{}
	cfg.SQLite.Enabled = true
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "vdash.db")

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("container init failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close failed: %v", err)
	}
}
