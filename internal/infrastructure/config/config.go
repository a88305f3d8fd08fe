package config

import (
	"errors"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App struct {
		RefreshEverySec int `toml:"refresh_every_sec"`
		SnapshotEverMin int `toml:"snapshot_every_min"`
	} `toml:"app"`

	Backend struct {
		BaseURL           string  `toml:"base_url"`
		WsURL             string  `toml:"ws_url"`
		ReconnectDelaySec int     `toml:"reconnect_delay_sec"`
		RequestsPerSec    float64 `toml:"requests_per_sec"`
		TimeoutSec        int     `toml:"timeout_sec"`
	} `toml:"backend"`

	SQLite struct {
		Enabled bool   `toml:"enabled"`
		Path    string `toml:"path"`
	} `toml:"sqlite"`

	Postgres struct {
		Enabled bool   `toml:"enabled"`
		DSN     string `toml:"dsn"`
	} `toml:"postgres"`

	Redis struct {
		Enabled       bool   `toml:"enabled"`
		Addr          string `toml:"addr"`
		Password      string `toml:"password"`
		DB            int    `toml:"db"`
		Prefix        string `toml:"prefix"`
		TTLSeconds    int    `toml:"ttl_seconds"`
		SignalStream  string `toml:"signal_stream"`
		SignalChannel string `toml:"signal_channel"`
	} `toml:"redis"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.RefreshEverySec <= 0 {
		cfg.App.RefreshEverySec = 5
	}
	if cfg.App.SnapshotEverMin <= 0 {
		cfg.App.SnapshotEverMin = 5
	}
	if cfg.Backend.ReconnectDelaySec <= 0 {
		cfg.Backend.ReconnectDelaySec = 5
	}
	if cfg.Backend.RequestsPerSec <= 0 {
		cfg.Backend.RequestsPerSec = 5
	}
	if cfg.Backend.TimeoutSec <= 0 {
		cfg.Backend.TimeoutSec = 10
	}
	if cfg.Redis.Enabled && strings.TrimSpace(cfg.Redis.Prefix) == "" {
		cfg.Redis.Prefix = "vdash"
	}
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Backend.BaseURL) == "" {
		return errors.New("backend.base_url is empty")
	}
	if strings.TrimSpace(cfg.Backend.WsURL) == "" {
		return errors.New("backend.ws_url is empty")
	}
	if cfg.SQLite.Enabled && strings.TrimSpace(cfg.SQLite.Path) == "" {
		return errors.New("sqlite.path empty but enabled")
	}
	if cfg.Postgres.Enabled && strings.TrimSpace(cfg.Postgres.DSN) == "" {
		return errors.New("postgres.dsn empty but enabled")
	}
	if cfg.Redis.Enabled && strings.TrimSpace(cfg.Redis.Addr) == "" {
		return errors.New("redis.addr empty but enabled")
	}
	return nil
}

// RefreshEvery 余额刷新间隔
func (c *Config) RefreshEvery() time.Duration {
	return time.Duration(c.App.RefreshEverySec) * time.Second
}

// SnapshotEvery 快照落盘间隔
func (c *Config) SnapshotEvery() time.Duration {
	return time.Duration(c.App.SnapshotEverMin) * time.Minute
}

// ReconnectDelay 重连固定延迟
func (c *Config) ReconnectDelay() time.Duration {
	return time.Duration(c.Backend.ReconnectDelaySec) * time.Second
}

// Timeout 单次 HTTP 请求超时
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSec) * time.Second
}
