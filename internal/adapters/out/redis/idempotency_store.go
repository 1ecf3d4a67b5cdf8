// Package redis keeps the responses of keyed bulk commands so a retried
// request gets the first result instead of running again.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "orderops:idemp:"

// IdempotencyStore implements ports.IdempotencyStore.
type IdempotencyStore struct {
	rdb redis.Cmdable
}

func NewIdempotencyStore(rdb redis.Cmdable) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb}
}

func (s *IdempotencyStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Save keeps the first response stored under key; later saves are ignored.
func (s *IdempotencyStore) Save(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.rdb.SetNX(ctx, keyPrefix+key, response, ttl).Err()
}
