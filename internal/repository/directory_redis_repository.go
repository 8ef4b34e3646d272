package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/coordination-audit/internal/domain"
)

// DefaultDirectoryKey is the Redis key holding the directory document.
const DefaultDirectoryKey = "coordination-audit:directory"

type redisDirectoryRepository struct {
	client *redis.Client
	key    string
}

// NewRedisDirectoryRepository stores the directory document under a single key.
func NewRedisDirectoryRepository(client *redis.Client, key string) DirectoryRepository {
	if key == "" {
		key = DefaultDirectoryKey
	}
	return &redisDirectoryRepository{client: client, key: key}
}

func (r *redisDirectoryRepository) Load(ctx context.Context) (*domain.Directory, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.NewDirectory(nil, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read directory key: %w", err)
	}

	var doc directoryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode directory key: %w", err)
	}
	return doc.directory(), nil
}

func (r *redisDirectoryRepository) Save(ctx context.Context, dir *domain.Directory) error {
	data, err := json.Marshal(documentOf(dir))
	if err != nil {
		return fmt.Errorf("encode directory: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key, data, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("write directory key: %w", err)
	}
	return nil
}
