package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the snapshot under a single Redis key. This is the
// durable key-value slot the ledger was designed around: load-or-default on
// startup, save-whole-object after every mutation.
type RedisStore struct {
	rdb *redis.Client
	key string
}

// NewRedisStore creates a Redis-backed store. An empty key falls back to
// DefaultKey.
func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{rdb: rdb, key: key}
}

func (s *RedisStore) Save(ctx context.Context, snapshot []byte) error {
	// No TTL: the snapshot lives until the next Save overwrites it.
	if err := s.rdb.Set(ctx, s.key, snapshot, 0).Err(); err != nil {
		return fmt.Errorf("redis save %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("redis load %s: %w", s.key, err)
	}
	return data, nil
}
