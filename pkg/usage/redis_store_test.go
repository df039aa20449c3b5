package usage_test

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/zenblog/pkg/subscription"
	"github.com/dmitrymomot/zenblog/pkg/usage"
)

func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	c := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisStore_Key(t *testing.T) {
	t.Parallel()

	s := usage.NewRedisStore(unreachableRedis(t))
	assert.Equal(t, "zb:usage:2025-03-14:v1:searches", s.Key("v1", subscription.UsageSearches, day))

	s = usage.NewRedisStore(unreachableRedis(t), usage.WithKeyPrefix("blog"))
	assert.Equal(t, "blog:2025-03-14:v1:aiMessages", s.Key("v1", subscription.UsageAIMessages, day))
}

func TestRedisStore_Errors(t *testing.T) {
	t.Parallel()

	s := usage.NewRedisStore(unreachableRedis(t))

	_, err := s.Get(t.Context(), "", subscription.UsageSearches, day)
	assert.ErrorIs(t, err, usage.ErrEmptyVisitor)

	_, err = s.Get(t.Context(), "v1", subscription.UsageSearches, day)
	assert.ErrorIs(t, err, usage.ErrStoreFailure)

	_, err = s.Increment(t.Context(), "v1", subscription.UsageSearches, day)
	assert.ErrorIs(t, err, usage.ErrStoreFailure)
}
