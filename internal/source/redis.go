package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSource reads the seed document from a Redis key, for deployments where
// the upstream publishes task snapshots to the cache instead of serving them
// over HTTP. A missing key is an empty fetch, not a failure.
type RedisSource struct {
	client *redis.Client
	key    string
}

func NewRedisSource(redisAddr, key string) (*RedisSource, error) {
	client := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSource{
		client: client,
		key:    key,
	}, nil
}

func (s *RedisSource) Fetch(ctx context.Context) ([]any, error) {
	data, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seed key %q: %w", s.key, err)
	}

	records, err := decodeRecords([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode seed key %q: %w", s.key, err)
	}

	return records, nil
}

func (s *RedisSource) Close() error {
	return s.client.Close()
}
