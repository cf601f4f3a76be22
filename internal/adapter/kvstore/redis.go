package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/niksmo/storefront/internal/core/port"
	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 5 * time.Second

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ KV = (*RedisStore)(nil)

// A RedisStore keeps values as plain Redis strings without expiry.
type RedisStore struct {
	cl redisClient
}

func NewRedisStore(cl redisClient) RedisStore {
	return RedisStore{cl: cl}
}

// NewRedisClient parses a redis:// URL and checks the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	const op = "NewRedisClient"

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cl := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := cl.Ping(ctx).Err(); err != nil {
		_ = cl.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cl, nil
}

func (s RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "RedisStore.Get"

	data, err := s.cl.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %q: %w", op, key, port.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data, nil
}

func (s RedisStore) Set(ctx context.Context, key string, value []byte) error {
	const op = "RedisStore.Set"

	if err := s.cl.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s RedisStore) Delete(ctx context.Context, key string) error {
	const op = "RedisStore.Delete"

	if err := s.cl.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
