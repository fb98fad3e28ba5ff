package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Storage = (*RedisStorage)(nil)

// RedisStorage keeps each record as a Redis hash. Records are dropped after
// retention without a write, so abandoned browser contexts do not pile up.
type RedisStorage struct {
	client    redis.Cmdable
	retention time.Duration
}

// NewRedisStorage creates a Redis-backed session storage.
func NewRedisStorage(client redis.Cmdable, retention time.Duration) *RedisStorage {
	return &RedisStorage{client: client, retention: retention}
}

func (s *RedisStorage) Read(ctx context.Context, namespace string) (map[string]string, error) {
	fields, err := s.client.HGetAll(ctx, namespace).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read session record: %w", err)
	}
	return fields, nil
}

// Write runs HSET, HDEL and EXPIRE inside MULTI/EXEC.
func (s *RedisStorage) Write(ctx context.Context, namespace string, set map[string]string, unset ...string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(set) > 0 {
			values := make([]any, 0, len(set)*2)
			for k, v := range set {
				values = append(values, k, v)
			}
			pipe.HSet(ctx, namespace, values...)
		}
		if len(unset) > 0 {
			pipe.HDel(ctx, namespace, unset...)
		}
		if s.retention > 0 {
			pipe.Expire(ctx, namespace, s.retention)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write session record: %w", err)
	}
	return nil
}

func (s *RedisStorage) Delete(ctx context.Context, namespace string) error {
	if err := s.client.Del(ctx, namespace).Err(); err != nil {
		return fmt.Errorf("failed to delete session record: %w", err)
	}
	return nil
}
