package trends

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"dev.helix.debate/internal/models"
)

const trendsKey = "trends:current"

// Store persists the trending-topic feed between refreshes. It is an explicit
// dependency injected into the Service, never a process-wide singleton.
type Store interface {
	Save(ctx context.Context, trends []models.TrendingTopic) error
	Load(ctx context.Context) ([]models.TrendingTopic, time.Time, error)
}

type storedTrends struct {
	Trends      []models.TrendingTopic `json:"trends"`
	LastUpdated time.Time              `json:"last_updated"`
}

// RedisStore keeps the current trends in Redis with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewRedisStore creates a trends store over the given Redis client.
func NewRedisStore(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *RedisStore {
	if logger == nil {
		logger = logrus.New()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Save stores the trend list with the current timestamp.
func (s *RedisStore) Save(ctx context.Context, trends []models.TrendingTopic) error {
	data, err := json.Marshal(storedTrends{
		Trends:      trends,
		LastUpdated: time.Now(),
	})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, trendsKey, data, s.ttl).Err()
}

// Load returns the stored trend list and when it was saved.
func (s *RedisStore) Load(ctx context.Context) ([]models.TrendingTopic, time.Time, error) {
	data, err := s.client.Get(ctx, trendsKey).Bytes()
	if err != nil {
		return nil, time.Time{}, err
	}

	var stored storedTrends
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, time.Time{}, err
	}
	return stored.Trends, stored.LastUpdated, nil
}

var _ Store = (*RedisStore)(nil)
