package storage

import (
	"context"
	"errors"
	"net"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a [RedisStore].
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps values as plain Redis strings. Network failures are
// retried with backoff.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and checks the connection with PING.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, wrap(BackendRedis, "ping", opts.Addr, err)
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get runs GET key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	found := true
	err := RetryWithBackoff(ctx, func() error {
		v, err := s.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			found = false
			return nil
		}
		data = v
		return redisRetryable(err)
	})
	if err != nil {
		return nil, false, wrap(BackendRedis, "get", key, err)
	}
	return data, found, nil
}

// Set runs SET key data with no expiry.
func (s *RedisStore) Set(ctx context.Context, key string, data []byte) error {
	err := RetryWithBackoff(ctx, func() error {
		return redisRetryable(s.client.Set(ctx, key, data, 0).Err())
	})
	return wrap(BackendRedis, "set", key, err)
}

// Delete runs DEL key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	err := RetryWithBackoff(ctx, func() error {
		return redisRetryable(s.client.Del(ctx, key).Err())
	})
	return wrap(BackendRedis, "delete", key, err)
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// redisRetryable marks network errors as retryable.
func redisRetryable(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Retryable(err)
	}
	return err
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
