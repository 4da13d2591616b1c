package evidence

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"dev.helix.debate/internal/models"
)

// DefaultCacheTTL is the minutes-scale expiry for cached evidence lookups.
const DefaultCacheTTL = 5 * time.Minute

// Cache is an explicit TTL cache for evidence results, keyed by (topic, query).
// It is constructed once per process and injected; when Redis is unreachable
// the cache silently disables itself and every lookup misses.
type Cache struct {
	client  *redis.Client
	ttl     time.Duration
	enabled bool
	logger  *logrus.Logger
}

// NewCache creates an evidence cache over the given Redis client. A nil
// client or a failed ping yields a disabled cache, not an error.
func NewCache(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *Cache {
	if logger == nil {
		logger = logrus.New()
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	c := &Cache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}

	if client == nil {
		return c
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Redis unreachable, evidence caching disabled")
		return c
	}

	c.enabled = true
	return c
}

// IsEnabled reports whether caching is active.
func (c *Cache) IsEnabled() bool {
	return c.enabled
}

// Get returns the cached evidence for (topic, query), if present.
func (c *Cache) Get(ctx context.Context, topic, query string) ([]models.Evidence, bool) {
	if !c.enabled {
		return nil, false
	}

	data, err := c.client.Get(ctx, c.key(topic, query)).Bytes()
	if err != nil {
		return nil, false
	}

	var evidence []models.Evidence
	if err := json.Unmarshal(data, &evidence); err != nil {
		c.logger.WithError(err).Debug("Corrupt evidence cache entry, treating as miss")
		return nil, false
	}
	return evidence, true
}

// Set stores the evidence for (topic, query) with the configured TTL.
func (c *Cache) Set(ctx context.Context, topic, query string, evidence []models.Evidence) {
	if !c.enabled {
		return
	}

	data, err := json.Marshal(evidence)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(topic, query), data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Debug("Failed to write evidence cache entry")
	}
}

// Clear drops every cached evidence entry.
func (c *Cache) Clear(ctx context.Context) {
	if !c.enabled {
		return
	}
	iter := c.client.Scan(ctx, 0, "evidence:*", 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
}

func (c *Cache) key(topic, query string) string {
	sum := md5.Sum([]byte(topic + "-" + query))
	return fmt.Sprintf("evidence:%x", sum)
}
