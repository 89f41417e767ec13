package preference

import (
	"context"
	"errors"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// redisClient is the subset of *redisv9.Client the store uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redisv9.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redisv9.StatusCmd
}

// RedisStore keeps the record under one key with no expiry.
type RedisStore struct {
	client redisClient
	key    string
}

func NewRedisStore(client redisClient, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Save(ctx context.Context, displayName string) {
	if !validName(displayName) {
		return
	}
	if err := s.client.Set(ctx, s.key, displayName, 0).Err(); err != nil {
		swallow("redis", "save", err)
	}
}

func (s *RedisStore) Load(ctx context.Context) (string, bool) {
	val, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if !errors.Is(err, redisv9.Nil) {
			swallow("redis", "load", err)
		}
		return "", false
	}
	return val, validName(val)
}
