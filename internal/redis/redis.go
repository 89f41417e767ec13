package redis

import (
	"context"
	"sync"
	"time"

	"github.com/fakhrymubarak/weather-locator/internal/config"
	redisv9 "github.com/redis/go-redis/v9"
)

var (
	client *redisv9.Client
	once   sync.Once
)

// GetClient returns the process-wide client for the preference backend.
func GetClient() *redisv9.Client {
	once.Do(func() {
		client = redisv9.NewClient(&redisv9.Options{
			Addr:        config.GetRedisAddr(),
			DialTimeout: 2 * time.Second,
			ReadTimeout: time.Second,
		})
	})
	return client
}

// Ping reports whether Redis answers within timeout. A failure is not fatal:
// the preference store degrades to "no remembered city".
func Ping(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return GetClient().Ping(ctx).Err()
}

// ResetClientForTest resets the Redis client singleton. Use only in tests.
func ResetClientForTest() {
	if client != nil {
		_ = client.Close()
	}
	once = sync.Once{}
	client = nil
}
