package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptStore keeps failed-login counters as expiring keys. The window starts
// at the first failure and is not extended by later ones.
type AttemptStore struct {
	client redis.UniversalClient
	prefix string
}

func NewAttemptStore(client redis.UniversalClient, prefix string) *AttemptStore {
	return &AttemptStore{client: client, prefix: prefix}
}

func (s *AttemptStore) Failures(ctx context.Context, key string) (int, time.Duration, error) {
	fullKey := s.prefix + key
	count, err := s.client.Get(ctx, fullKey).Int()
	if errors.Is(err, redis.Nil) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}

	ttl, err := s.client.TTL(ctx, fullKey).Result()
	if err != nil {
		return 0, 0, err
	}
	if ttl < 0 {
		ttl = 0
	}
	return count, ttl, nil
}

func (s *AttemptStore) RecordFailure(ctx context.Context, key string, window time.Duration) (int, error) {
	fullKey := s.prefix + key

	count, err := s.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, fullKey, window).Err(); err != nil {
			return 0, err
		}
	}
	return int(count), nil
}

func (s *AttemptStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
