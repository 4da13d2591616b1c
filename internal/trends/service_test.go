package trends

import (
	"context"
	"errors"
	"net/http"
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

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, time.Hour, testLogger())
}

func TestRedisStore_SaveLoadRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved := []models.TrendingTopic{
		{Keyword: "生成AI", Trend: "+120%", Category: "テクノロジー"},
		{Keyword: "円安", Trend: "+85%", Category: "ビジネス"},
	}
	require.NoError(t, store.Save(ctx, saved))

	loaded, lastUpdated, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "生成AI", loaded[0].Keyword)
	assert.Equal(t, "円安", loaded[1].Keyword)
	assert.WithinDuration(t, time.Now(), lastUpdated, 5*time.Second)
}

func TestRedisStore_LoadEmpty(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Load(context.Background())
	assert.Error(t, err)
}

func TestCurrentTrends_NoKeyServesSeeds(t *testing.T) {
	svc := NewService("", newTestStore(t), testLogger())

	list := svc.CurrentTrends(context.Background())
	require.Len(t, list, 3)
	assert.Equal(t, "生成AI", list[0].Keyword)
	assert.Equal(t, "+120%", list[0].Trend)
	assert.Equal(t, "円安", list[1].Keyword)
	assert.Equal(t, "半導体", list[2].Keyword)
}

func TestCurrentTrends_PrefersStoredList(t *testing.T) {
	store := newTestStore(t)
	stored := []models.TrendingTopic{{Keyword: "量子コンピュータ", Trend: "+40%"}}
	require.NoError(t, store.Save(context.Background(), stored))

	svc := NewService("", store, testLogger())
	list := svc.CurrentTrends(context.Background())

	require.Len(t, list, 1)
	assert.Equal(t, "量子コンピュータ", list[0].Keyword)
}

func TestRefresh_SavesToStore(t *testing.T) {
	store := newTestStore(t)
	svc := NewService("", store, testLogger())

	list, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 3)

	loaded, _, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, loaded, 3)
}

func TestRefresh_FetchFailureKeepsSeeds(t *testing.T) {
	svc := NewService("some-key", newTestStore(t), testLogger())
	svc.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return nil, errors.New("dial tcp: no such host")
		}),
	}

	list, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 3)
	assert.Equal(t, "生成AI", list[0].Keyword)
}

func TestCurrentTrends_NilStore(t *testing.T) {
	svc := NewService("", nil, testLogger())
	list := svc.CurrentTrends(context.Background())
	assert.Len(t, list, 3)
}

func TestJapaneseTextDetection(t *testing.T) {
	assert.True(t, japaneseText.MatchString("半導体の供給網"))
	assert.True(t, japaneseText.MatchString("カタカナ"))
	assert.False(t, japaneseText.MatchString("English headline only"))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "あいう", truncateRunes("あいうえお", 3))
	assert.Equal(t, "short", truncateRunes("short", 24))
}
