package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"dev.helix.debate/internal/models"
)

// DebateRepository persists finished debates with their full turn log,
// attached evidence, and audience questions.
type DebateRepository struct {
	pool *pgxpool.Pool
	log  *logrus.Logger
}

// NewDebateRepository creates a new debate repository.
func NewDebateRepository(pool *pgxpool.Pool, log *logrus.Logger) *DebateRepository {
	if log == nil {
		log = logrus.New()
	}
	return &DebateRepository{
		pool: pool,
		log:  log,
	}
}

// CreateTables creates the debate tables if they don't exist.
func (r *DebateRepository) CreateTables(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS topics (
			id VARCHAR(255) PRIMARY KEY,
			title TEXT NOT NULL UNIQUE,
			description TEXT,
			category VARCHAR(100),
			trending BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS ai_models (
			id VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			provider VARCHAR(50) NOT NULL,
			description TEXT,
			avatar VARCHAR(255),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS debates (
			id VARCHAR(255) PRIMARY KEY,
			topic_id VARCHAR(255) REFERENCES topics(id),
			pro_model_id VARCHAR(255) REFERENCES ai_models(id),
			con_model_id VARCHAR(255) REFERENCES ai_models(id),
			stage VARCHAR(50) NOT NULL,
			current_speaker VARCHAR(10) NOT NULL,
			winner VARCHAR(10),
			summary TEXT,
			duration INT DEFAULT 0,
			start_time TIMESTAMP WITH TIME ZONE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS debate_messages (
			id VARCHAR(255) PRIMARY KEY,
			debate_id VARCHAR(255) NOT NULL REFERENCES debates(id) ON DELETE CASCADE,
			speaker VARCHAR(10) NOT NULL,
			model_id VARCHAR(255) REFERENCES ai_models(id),
			content TEXT NOT NULL,
			stage VARCHAR(50) NOT NULL,
			reactions INT DEFAULT 0,
			position INT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE
		);

		CREATE TABLE IF NOT EXISTS message_evidence (
			id VARCHAR(255) PRIMARY KEY,
			message_id VARCHAR(255) NOT NULL REFERENCES debate_messages(id) ON DELETE CASCADE,
			url TEXT NOT NULL,
			title TEXT,
			source VARCHAR(255),
			snippet TEXT,
			credibility INT DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS audience_questions (
			id VARCHAR(255) PRIMARY KEY,
			debate_id VARCHAR(255) NOT NULL REFERENCES debates(id) ON DELETE CASCADE,
			question TEXT NOT NULL,
			author VARCHAR(255),
			votes INT DEFAULT 0,
			answered BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE
		);

		CREATE INDEX IF NOT EXISTS idx_debates_created_at ON debates(created_at);
		CREATE INDEX IF NOT EXISTS idx_debate_messages_debate_id ON debate_messages(debate_id);
		CREATE INDEX IF NOT EXISTS idx_audience_questions_debate_id ON audience_questions(debate_id);
	`

	_, err := r.pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create debate tables: %w", err)
	}

	r.log.Info("Debate tables created/verified")
	return nil
}

// SaveDebate persists a finished debate atomically and returns the debate id.
func (r *DebateRepository) SaveDebate(ctx context.Context, state *models.DebateState) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	topicID, err := r.ensureTopic(ctx, tx, state.Config.Topic)
	if err != nil {
		return "", err
	}
	proModelID, err := r.ensureModel(ctx, tx, state.Config.ProModel)
	if err != nil {
		return "", err
	}
	conModelID, err := r.ensureModel(ctx, tx, state.Config.ConModel)
	if err != nil {
		return "", err
	}

	debateID := state.ID
	if debateID == "" {
		debateID = uuid.New().String()
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO debates (id, topic_id, pro_model_id, con_model_id, stage,
			current_speaker, winner, summary, duration, start_time)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			stage = EXCLUDED.stage,
			current_speaker = EXCLUDED.current_speaker,
			winner = EXCLUDED.winner,
			summary = EXCLUDED.summary
	`, debateID, topicID, proModelID, conModelID, state.Stage,
		state.CurrentSpeaker, string(state.Winner), state.Summary,
		state.Config.Duration, state.StartTime)
	if err != nil {
		return "", fmt.Errorf("failed to insert debate: %w", err)
	}

	for i, msg := range state.Messages {
		modelID, err := r.ensureModel(ctx, tx, msg.Model)
		if err != nil {
			return "", err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO debate_messages (id, debate_id, speaker, model_id,
				content, stage, reactions, position, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO NOTHING
		`, msg.ID, debateID, msg.Speaker, modelID, msg.Content, msg.Stage,
			msg.Reactions, i, msg.Timestamp)
		if err != nil {
			return "", fmt.Errorf("failed to insert debate message: %w", err)
		}

		for _, ev := range msg.Evidence {
			_, err = tx.Exec(ctx, `
				INSERT INTO message_evidence (id, message_id, url, title, source, snippet, credibility)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT (id) DO NOTHING
			`, ev.ID, msg.ID, ev.URL, ev.Title, ev.Source, ev.Snippet, ev.Credibility)
			if err != nil {
				return "", fmt.Errorf("failed to insert message evidence: %w", err)
			}
		}
	}

	for _, q := range state.AudienceQuestions {
		_, err = tx.Exec(ctx, `
			INSERT INTO audience_questions (id, debate_id, question, author, votes, answered, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING
		`, q.ID, debateID, q.Question, q.Author, q.Votes, q.Answered, q.Timestamp)
		if err != nil {
			return "", fmt.Errorf("failed to insert audience question: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit debate save: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"debate_id": debateID,
		"messages":  len(state.Messages),
		"questions": len(state.AudienceQuestions),
	}).Debug("Debate saved")

	return debateID, nil
}

// GetDebate loads one debate with its full message and question logs.
func (r *DebateRepository) GetDebate(ctx context.Context, id string) (*models.DebateState, error) {
	var state models.DebateState
	var winner *string

	err := r.pool.QueryRow(ctx, `
		SELECT d.id, d.stage, d.current_speaker, d.winner, d.summary,
			   d.duration, d.start_time,
			   t.id, t.title, t.description, t.category, t.trending,
			   pm.id, pm.name, pm.provider, pm.description, pm.avatar,
			   cm.id, cm.name, cm.provider, cm.description, cm.avatar
		FROM debates d
		JOIN topics t ON t.id = d.topic_id
		JOIN ai_models pm ON pm.id = d.pro_model_id
		JOIN ai_models cm ON cm.id = d.con_model_id
		WHERE d.id = $1
	`, id).Scan(
		&state.ID, &state.Stage, &state.CurrentSpeaker, &winner, &state.Summary,
		&state.Config.Duration, &state.StartTime,
		&state.Config.Topic.ID, &state.Config.Topic.Title, &state.Config.Topic.Description,
		&state.Config.Topic.Category, &state.Config.Topic.Trending,
		&state.Config.ProModel.ID, &state.Config.ProModel.Name, &state.Config.ProModel.Provider,
		&state.Config.ProModel.Description, &state.Config.ProModel.Avatar,
		&state.Config.ConModel.ID, &state.Config.ConModel.Name, &state.Config.ConModel.Provider,
		&state.Config.ConModel.Description, &state.Config.ConModel.Avatar,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load debate %s: %w", id, err)
	}
	if winner != nil {
		state.Winner = models.Winner(*winner)
	}

	messages, err := r.loadMessages(ctx, id)
	if err != nil {
		return nil, err
	}
	state.Messages = messages

	questions, err := r.loadQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	state.AudienceQuestions = questions

	return &state, nil
}

// ListRecent returns summaries of the most recently saved debates.
func (r *DebateRepository) ListRecent(ctx context.Context, limit int) ([]models.DebateSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.pool.Query(ctx, `
		SELECT d.id, t.title, pm.name, cm.name, COALESCE(d.winner, ''),
			   d.duration, d.created_at
		FROM debates d
		JOIN topics t ON t.id = d.topic_id
		JOIN ai_models pm ON pm.id = d.pro_model_id
		JOIN ai_models cm ON cm.id = d.con_model_id
		ORDER BY d.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent debates: %w", err)
	}
	defer rows.Close()

	var summaries []models.DebateSummary
	for rows.Next() {
		var s models.DebateSummary
		if err := rows.Scan(&s.ID, &s.Topic, &s.ProModel, &s.ConModel,
			&s.Winner, &s.Duration, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan debate summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating debate summaries: %w", err)
	}

	return summaries, nil
}

func (r *DebateRepository) loadMessages(ctx context.Context, debateID string) ([]models.DebateMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.speaker, m.content, m.stage, m.reactions, m.created_at,
			   am.id, am.name, am.provider, am.description, am.avatar
		FROM debate_messages m
		JOIN ai_models am ON am.id = m.model_id
		WHERE m.debate_id = $1
		ORDER BY m.position ASC
	`, debateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query debate messages: %w", err)
	}
	defer rows.Close()

	var messages []models.DebateMessage
	for rows.Next() {
		var msg models.DebateMessage
		if err := rows.Scan(&msg.ID, &msg.Speaker, &msg.Content, &msg.Stage,
			&msg.Reactions, &msg.Timestamp,
			&msg.Model.ID, &msg.Model.Name, &msg.Model.Provider,
			&msg.Model.Description, &msg.Model.Avatar); err != nil {
			return nil, fmt.Errorf("failed to scan debate message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating debate messages: %w", err)
	}

	for i := range messages {
		evidence, err := r.loadEvidence(ctx, messages[i].ID)
		if err != nil {
			return nil, err
		}
		messages[i].Evidence = evidence
	}

	return messages, nil
}

func (r *DebateRepository) loadEvidence(ctx context.Context, messageID string) ([]models.Evidence, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, url, title, source, snippet, credibility
		FROM message_evidence
		WHERE message_id = $1
	`, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to query message evidence: %w", err)
	}
	defer rows.Close()

	var evidence []models.Evidence
	for rows.Next() {
		var ev models.Evidence
		if err := rows.Scan(&ev.ID, &ev.URL, &ev.Title, &ev.Source,
			&ev.Snippet, &ev.Credibility); err != nil {
			return nil, fmt.Errorf("failed to scan message evidence: %w", err)
		}
		evidence = append(evidence, ev)
	}
	return evidence, rows.Err()
}

func (r *DebateRepository) loadQuestions(ctx context.Context, debateID string) ([]models.AudienceQuestion, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, question, author, votes, answered, created_at
		FROM audience_questions
		WHERE debate_id = $1
		ORDER BY created_at ASC
	`, debateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audience questions: %w", err)
	}
	defer rows.Close()

	var questions []models.AudienceQuestion
	for rows.Next() {
		var q models.AudienceQuestion
		if err := rows.Scan(&q.ID, &q.Question, &q.Author, &q.Votes,
			&q.Answered, &q.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan audience question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ensureTopic finds or creates the topic row and returns its id.
func (r *DebateRepository) ensureTopic(ctx context.Context, tx pgx.Tx, topic models.DebateTopic) (string, error) {
	var id string
	err := tx.QueryRow(ctx, `SELECT id FROM topics WHERE title = $1`, topic.Title).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != pgx.ErrNoRows {
		return "", fmt.Errorf("failed to look up topic: %w", err)
	}

	id = topic.ID
	if id == "" {
		id = uuid.New().String()
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO topics (id, title, description, category, trending)
		VALUES ($1, $2, $3, $4, $5)
	`, id, topic.Title, topic.Description, topic.Category, topic.Trending)
	if err != nil {
		return "", fmt.Errorf("failed to insert topic: %w", err)
	}
	return id, nil
}

// ensureModel finds or creates the model catalog row and returns its id.
func (r *DebateRepository) ensureModel(ctx context.Context, tx pgx.Tx, model models.AIModel) (string, error) {
	var id string
	err := tx.QueryRow(ctx, `SELECT id FROM ai_models WHERE name = $1`, model.Name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != pgx.ErrNoRows {
		return "", fmt.Errorf("failed to look up model: %w", err)
	}

	id = model.ID
	if id == "" {
		id = uuid.New().String()
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO ai_models (id, name, provider, description, avatar)
		VALUES ($1, $2, $3, $4, $5)
	`, id, model.Name, model.Provider, model.Description, model.Avatar)
	if err != nil {
		return "", fmt.Errorf("failed to insert model: %w", err)
	}
	return id, nil
}
