package evidence

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev.helix.debate/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cache := NewCache(client, ttl, testLogger())
	require.True(t, cache.IsEnabled())
	return cache, mr
}

func TestCache_SetGetRoundtrip(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	evidence := []models.Evidence{
		{ID: "e1", URL: "https://www.nhk.or.jp/", Title: "記事", Credibility: 95},
	}
	cache.Set(ctx, "原発再稼働", "エネルギー政策", evidence)

	got, ok := cache.Get(ctx, "原発再稼働", "エネルギー政策")
	require.True(t, ok)
	assert.Equal(t, evidence, got)
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)

	_, ok := cache.Get(context.Background(), "unknown", "query")
	assert.False(t, ok)
}

func TestCache_KeyedByTopicAndQuery(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	cache.Set(ctx, "topicA", "query", []models.Evidence{{ID: "a"}})

	_, ok := cache.Get(ctx, "topicB", "query")
	assert.False(t, ok)
	_, ok = cache.Get(ctx, "topicA", "other")
	assert.False(t, ok)
}

func TestCache_EntriesExpire(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	cache.Set(ctx, "topic", "query", []models.Evidence{{ID: "a"}})
	mr.FastForward(2 * time.Minute)

	_, ok := cache.Get(ctx, "topic", "query")
	assert.False(t, ok)
}

func TestCache_Clear(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	cache.Set(ctx, "topic1", "query", []models.Evidence{{ID: "a"}})
	cache.Set(ctx, "topic2", "query", []models.Evidence{{ID: "b"}})
	cache.Clear(ctx)

	_, ok := cache.Get(ctx, "topic1", "query")
	assert.False(t, ok)
	_, ok = cache.Get(ctx, "topic2", "query")
	assert.False(t, ok)
}

func TestCache_NilClientDisabled(t *testing.T) {
	cache := NewCache(nil, time.Minute, testLogger())
	assert.False(t, cache.IsEnabled())

	// All operations are no-ops, never panics.
	ctx := context.Background()
	cache.Set(ctx, "topic", "query", []models.Evidence{{ID: "a"}})
	_, ok := cache.Get(ctx, "topic", "query")
	assert.False(t, ok)
	cache.Clear(ctx)
}

func TestCache_UnreachableRedisDisabled(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	cache := NewCache(client, time.Minute, testLogger())
	assert.False(t, cache.IsEnabled())
}
