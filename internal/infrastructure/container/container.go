package container

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"vdash/internal/application/port"
	"vdash/internal/infrastructure/config"
	"vdash/internal/infrastructure/storage/composite"
	postgresrepo "vdash/internal/infrastructure/storage/postgres"
	redisrepo "vdash/internal/infrastructure/storage/redis"
	sqliterepo "vdash/internal/infrastructure/storage/sqlite"
)

// Container 管理所有基础设施依赖（存储连接与关闭链）
type Container struct {
	cfg          *config.Config
	redisClient  *redis.Client
	redisRepo    *redisrepo.Repo
	sqliteRepo   *sqliterepo.Repo
	postgresRepo *postgresrepo.Repo
	closeOnce    sync.Once
	closerChain  []func() error
}

// New 创建新的容器实例
func New(cfg *config.Config) (*Container, error) {
	c := &Container{
		cfg:         cfg,
		closerChain: make([]func() error, 0),
	}

	if err := c.initStorage(); err != nil {
		// 清理已初始化的资源
		_ = c.Close()
		return nil, err
	}

	return c, nil
}

// initStorage 初始化存储层（Redis、SQLite、Postgres）
func (c *Container) initStorage() error {
	if c.cfg.Redis.Enabled {
		if err := c.initRedis(); err != nil {
			return fmt.Errorf("redis init failed: %w", err)
		}
	}

	if c.cfg.SQLite.Enabled {
		if err := c.initSQLite(); err != nil {
			return fmt.Errorf("sqlite init failed: %w", err)
		}
	}

	if c.cfg.Postgres.Enabled {
		if err := c.initPostgres(); err != nil {
			return fmt.Errorf("postgres init failed: %w", err)
		}
	}

	return nil
}

// initRedis 初始化 Redis 连接
func (c *Container) initRedis() error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     c.cfg.Redis.Addr,
		Password: c.cfg.Redis.Password,
		DB:       c.cfg.Redis.DB,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	c.redisClient = rdb
	ttl := time.Duration(c.cfg.Redis.TTLSeconds) * time.Second

	c.redisRepo = redisrepo.New(
		rdb,
		c.cfg.Redis.Prefix,
		ttl,
		c.cfg.Redis.SignalStream,
		c.cfg.Redis.SignalChannel,
	)

	// 注册关闭回调
	c.closerChain = append(c.closerChain, func() error {
		log.Info().Msg("closing redis connection")
		return rdb.Close()
	})

	log.Info().
		Str("addr", c.cfg.Redis.Addr).
		Int("db", c.cfg.Redis.DB).
		Msg("redis initialized")

	return nil
}

// initSQLite 初始化 SQLite 数据库
func (c *Container) initSQLite() error {
	repo, err := sqliterepo.New(c.cfg.SQLite.Path)
	if err != nil {
		return err
	}

	c.sqliteRepo = repo
	c.closerChain = append(c.closerChain, func() error {
		log.Info().Msg("closing sqlite connection")
		return repo.Close()
	})

	log.Info().Str("path", c.cfg.SQLite.Path).Msg("sqlite initialized")
	return nil
}

// initPostgres 初始化 Postgres 连接
func (c *Container) initPostgres() error {
	repo, err := postgresrepo.New(c.cfg.Postgres.DSN)
	if err != nil {
		return err
	}

	c.postgresRepo = repo
	c.closerChain = append(c.closerChain, func() error {
		log.Info().Msg("closing postgres connection")
		return repo.Close()
	})

	log.Info().Msg("postgres initialized")
	return nil
}

// Repository 返回所有已启用存储的组合仓储；没有启用任何存储时返回 nil
func (c *Container) Repository() port.Repository {
	repos := make([]port.Repository, 0, 3)
	if c.sqliteRepo != nil {
		repos = append(repos, c.sqliteRepo)
	}
	if c.postgresRepo != nil {
		repos = append(repos, c.postgresRepo)
	}
	if c.redisRepo != nil {
		repos = append(repos, c.redisRepo)
	}
	if len(repos) == 0 {
		return nil
	}
	if len(repos) == 1 {
		return repos[0]
	}
	return composite.New(repos...)
}

// SQLiteRepo 获取 SQLite 仓储
func (c *Container) SQLiteRepo() *sqliterepo.Repo {
	return c.sqliteRepo
}

// RedisRepo 获取 Redis 仓储
func (c *Container) RedisRepo() *redisrepo.Repo {
	return c.redisRepo
}

// Close 按相反顺序关闭所有资源
func (c *Container) Close() error {
	var firstErr error
	c.closeOnce.Do(func() {
		for i := len(c.closerChain) - 1; i >= 0; i-- {
			if err := c.closerChain[i](); err != nil {
				log.Error().Err(err).Msg("error closing resource")
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	})
	return firstErr
}
