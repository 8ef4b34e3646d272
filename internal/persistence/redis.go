package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/coordination-audit/internal/config"
)

const redisPingTimeout = 3 * time.Second

// Redis holds the client backing the redis directory store.
type Redis struct {
	Client *redis.Client
	addr   string
}

// NewRedis builds the client. No connection is made until the first command.
func NewRedis(cfg config.RedisConfig) *Redis {
	return &Redis{
		Client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		addr: cfg.Addr,
	}
}

func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping checks connectivity, bounded by redisPingTimeout.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	return r.Client.Ping(ctx).Err()
}

// Addr is the configured server address.
func (r *Redis) Addr() string {
	if r == nil {
		return ""
	}
	return r.addr
}
