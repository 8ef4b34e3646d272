package persistence

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/coordination-audit/internal/config"
	"github.com/spec-kit/coordination-audit/internal/repository"
)

// DirectoryStore is the directory repository selected by configuration, together with
// the connections it needs.
type DirectoryStore struct {
	Repo     repository.DirectoryRepository
	Postgres *Postgres
	Redis    *Redis
}

// OpenDirectoryStore connects the backend named by cfg.Directory.Backend.
func OpenDirectoryStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*DirectoryStore, error) {
	switch cfg.Directory.Backend {
	case config.DirectoryBackendPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if !pg.Configured() {
			return nil, errors.New("directory backend postgres requires POSTGRES_DSN")
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return &DirectoryStore{Repo: repository.NewDirectoryRepository(pg.PoolHandle()), Postgres: pg}, nil
	case config.DirectoryBackendRedis:
		rdb := NewRedis(cfg.Redis)
		if err := rdb.Ping(ctx); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("connect redis %s: %w", rdb.Addr(), err)
		}
		logger.Info("using redis directory store", zap.String("addr", rdb.Addr()), zap.String("key", cfg.Directory.RedisKey))
		return &DirectoryStore{Repo: repository.NewRedisDirectoryRepository(rdb.Client, cfg.Directory.RedisKey), Redis: rdb}, nil
	default:
		logger.Info("using file directory store", zap.String("path", cfg.Directory.FilePath))
		return &DirectoryStore{Repo: repository.NewFileDirectoryRepository(cfg.Directory.FilePath)}, nil
	}
}

// Close releases any open connections.
func (s *DirectoryStore) Close() {
	if s == nil {
		return
	}
	s.Postgres.Close()
	s.Redis.Close()
}
