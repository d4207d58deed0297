package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "parking:idempotency:"
	pendingMarker = "pending"
)

// RedisStore keeps idempotency keys in Redis so that every API replica sees
// the same reservations.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect parses a redis:// URL and checks the server answers.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Reserve(ctx context.Context, key string) (bool, string, error) {
	ok, err := s.client.SetNX(ctx, keyPrefix+key, pendingMarker, s.ttl).Result()
	if err != nil {
		return false, "", fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if ok {
		return true, "", nil
	}

	val, err := s.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		return false, "", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("failed to read idempotency key: %w", err)
	}
	if val == pendingMarker {
		return false, "", nil
	}
	return false, val, nil
}

func (s *RedisStore) Complete(ctx context.Context, key, registrationID string) error {
	if err := s.client.Set(ctx, keyPrefix+key, registrationID, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to complete idempotency key: %w", err)
	}
	return nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}
