package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[backend]
base_url = "http://127.0.0.1:8080"
ws_url = "ws://127.0.0.1:8080/ws"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.RefreshEvery() != 5*time.Second {
		t.Errorf("refresh = %v, want 5s default", cfg.RefreshEvery())
	}
	if cfg.SnapshotEvery() != 5*time.Minute {
		t.Errorf("snapshot = %v, want 5m default", cfg.SnapshotEvery())
	}
	if cfg.ReconnectDelay() != 5*time.Second {
		t.Errorf("reconnect = %v, want 5s default", cfg.ReconnectDelay())
	}
	if cfg.Timeout() != 10*time.Second {
		t.Errorf("timeout = %v, want 10s default", cfg.Timeout())
	}
	if cfg.Backend.RequestsPerSec != 5 {
		t.Errorf("rps = %v, want 5 default", cfg.Backend.RequestsPerSec)
	}
}

func TestLoadExplicitValues(t *testing.T) {
	path := writeConfig(t, `
[app]
refresh_every_sec = 2
snapshot_every_min = 10

[backend]
base_url = "http://backend:9000"
ws_url = "ws://backend:9000/ws"
reconnect_delay_sec = 3
requests_per_sec = 20
timeout_sec = 4

[redis]
enabled = true
addr = "127.0.0.1:6379"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.RefreshEvery() != 2*time.Second {
		t.Errorf("refresh = %v", cfg.RefreshEvery())
	}
	if cfg.SnapshotEvery() != 10*time.Minute {
		t.Errorf("snapshot = %v", cfg.SnapshotEvery())
	}
	if cfg.ReconnectDelay() != 3*time.Second {
		t.Errorf("reconnect = %v", cfg.ReconnectDelay())
	}
	// redis 启用但未配置前缀，补默认值
	if cfg.Redis.Prefix != "vdash" {
		t.Errorf("prefix = %q, want default", cfg.Redis.Prefix)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing base_url", `
[backend]
ws_url = "ws://x/ws"
`},
		{"missing ws_url", `
[backend]
base_url = "http://x"
`},
		{"sqlite enabled without path", `
[backend]
base_url = "http://x"
ws_url = "ws://x/ws"
[sqlite]
enabled = true
`},
		{"postgres enabled without dsn", `
[backend]
base_url = "http://x"
ws_url = "ws://x/ws"
[postgres]
enabled = true
`},
		{"redis enabled without addr", `
[backend]
base_url = "http://x"
ws_url = "ws://x/ws"
[redis]
enabled = true
`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := writeConfig(t, c.content)
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.toml"); err == nil {
		t.Error("expected error for missing file")
	}
}
