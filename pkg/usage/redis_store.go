package usage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/zenblog/pkg/subscription"
)

// DefaultTTL keeps a counter alive past the end of its day in any time zone.
const DefaultTTL = 48 * time.Hour

// RedisStore keeps counters in Redis under "{prefix}:{day}:{visitor}:{type}".
type RedisStore struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix sets the key prefix. Default "zb:usage".
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithTTL sets how long a counter lives after its last increment.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewRedisStore creates a store backed by client.
func NewRedisStore(client redis.Cmdable, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: "zb:usage", ttl: DefaultTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the Redis key holding a counter.
func (s *RedisStore) Key(visitor string, t subscription.UsageType, day time.Time) string {
	return s.prefix + ":" + DayKey(day) + ":" + visitor + ":" + string(t)
}

func (s *RedisStore) Get(ctx context.Context, visitor string, t subscription.UsageType, day time.Time) (int64, error) {
	if err := validate(visitor, t); err != nil {
		return 0, err
	}
	n, err := s.client.Get(ctx, s.Key(visitor, t, day)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Join(ErrStoreFailure, err)
	}
	return n, nil
}

func (s *RedisStore) Increment(ctx context.Context, visitor string, t subscription.UsageType, day time.Time) (int64, error) {
	if err := validate(visitor, t); err != nil {
		return 0, err
	}
	key := s.Key(visitor, t, day)
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		p.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return 0, errors.Join(ErrStoreFailure, err)
	}
	return incr.Val(), nil
}
