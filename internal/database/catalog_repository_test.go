package database

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev.helix.debate/internal/models"
)

func catalogPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	require.NoError(t, NewDebateRepository(pool, logger).CreateTables(context.Background()))
	return pool
}

func TestTopicRepository_SeedAndList(t *testing.T) {
	pool := catalogPool(t)
	repo := NewTopicRepository(pool, nil)
	ctx := context.Background()

	seed := []models.DebateTopic{
		{ID: "seed-topic-1", Title: "テスト用トピック", Category: "テスト", Trending: true},
	}
	require.NoError(t, repo.Seed(ctx, seed))
	// Seeding again is a no-op, not an error.
	require.NoError(t, repo.Seed(ctx, seed))

	topics, err := repo.List(ctx)
	require.NoError(t, err)

	var found bool
	for _, topic := range topics {
		if topic.Title == "テスト用トピック" {
			found = true
			assert.True(t, topic.Trending)
		}
	}
	assert.True(t, found)
}

func TestModelRepository_SeedAndList(t *testing.T) {
	pool := catalogPool(t)
	repo := NewModelRepository(pool, nil)
	ctx := context.Background()

	seed := []models.AIModel{
		{ID: "seed-model-1", Name: "テストモデル", Provider: "openai", Avatar: "🧪"},
	}
	require.NoError(t, repo.Seed(ctx, seed))
	require.NoError(t, repo.Seed(ctx, seed))

	list, err := repo.List(ctx)
	require.NoError(t, err)

	var found bool
	for _, model := range list {
		if model.Name == "テストモデル" {
			found = true
			assert.Equal(t, "openai", model.Provider)
		}
	}
	assert.True(t, found)
}
