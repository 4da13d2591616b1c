package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"dev.helix.debate/internal/models"
)

// TopicRepository serves the debatable-topic catalog.
type TopicRepository struct {
	pool *pgxpool.Pool
	log  *logrus.Logger
}

// NewTopicRepository creates a new topic repository.
func NewTopicRepository(pool *pgxpool.Pool, log *logrus.Logger) *TopicRepository {
	if log == nil {
		log = logrus.New()
	}
	return &TopicRepository{pool: pool, log: log}
}

// List returns every cataloged topic, trending entries first.
func (r *TopicRepository) List(ctx context.Context) ([]models.DebateTopic, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, COALESCE(description, ''), COALESCE(category, ''), trending
		FROM topics
		ORDER BY trending DESC, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query topics: %w", err)
	}
	defer rows.Close()

	var topics []models.DebateTopic
	for rows.Next() {
		var topic models.DebateTopic
		if err := rows.Scan(&topic.ID, &topic.Title, &topic.Description,
			&topic.Category, &topic.Trending); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		topics = append(topics, topic)
	}
	return topics, rows.Err()
}

// Seed inserts catalog entries that are not present yet, keyed by title.
func (r *TopicRepository) Seed(ctx context.Context, topics []models.DebateTopic) error {
	for _, topic := range topics {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO topics (id, title, description, category, trending)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (title) DO NOTHING
		`, topic.ID, topic.Title, topic.Description, topic.Category, topic.Trending)
		if err != nil {
			return fmt.Errorf("failed to seed topic %q: %w", topic.Title, err)
		}
	}
	return nil
}

// ModelRepository serves the generation-model catalog.
type ModelRepository struct {
	pool *pgxpool.Pool
	log  *logrus.Logger
}

// NewModelRepository creates a new model repository.
func NewModelRepository(pool *pgxpool.Pool, log *logrus.Logger) *ModelRepository {
	if log == nil {
		log = logrus.New()
	}
	return &ModelRepository{pool: pool, log: log}
}

// List returns every cataloged model.
func (r *ModelRepository) List(ctx context.Context) ([]models.AIModel, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, provider, COALESCE(description, ''), COALESCE(avatar, '🤖')
		FROM ai_models
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query models: %w", err)
	}
	defer rows.Close()

	var list []models.AIModel
	for rows.Next() {
		var model models.AIModel
		if err := rows.Scan(&model.ID, &model.Name, &model.Provider,
			&model.Description, &model.Avatar); err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}
		list = append(list, model)
	}
	return list, rows.Err()
}

// Seed inserts catalog entries that are not present yet, keyed by name.
func (r *ModelRepository) Seed(ctx context.Context, list []models.AIModel) error {
	for _, model := range list {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO ai_models (id, name, provider, description, avatar)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (name) DO NOTHING
		`, model.ID, model.Name, model.Provider, model.Description, model.Avatar)
		if err != nil {
			return fmt.Errorf("failed to seed model %q: %w", model.Name, err)
		}
	}
	return nil
}
