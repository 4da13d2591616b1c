package debate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"dev.helix.debate/internal/llm"
	"dev.helix.debate/internal/metrics"
	"dev.helix.debate/internal/models"
)

const (
	// FallbackMarker appears in every placeholder turn so consumers and tests
	// can tell degraded content from real backend output.
	FallbackMarker = "[AI接続エラー"

	// DuplicateThreshold is the similarity score at or above which two turns
	// count as duplicates.
	DuplicateThreshold = 0.8

	// MaxGenerationAttempts bounds the duplicate-suppression retry loop.
	MaxGenerationAttempts = 3
)

var stageNamesJP = map[models.Stage]string{
	models.StageSetup:    "準備中",
	models.StageOpening:  "オープニング",
	models.StageRebuttal: "反駁",
	models.StageClosing:  "クロージング",
	models.StageSummary:  "サマリー",
}

// GenerationOutcome is the tagged result of producing one turn's content.
// Content is always usable; Fallback and Exhausted tell the caller which
// degraded paths, if any, were taken.
type GenerationOutcome struct {
	Content   string
	Fallback  bool
	Exhausted bool
	Attempts  int
}

// MessageGenerator produces the text content of one turn, delegating to the
// speaker's generation backend and suppressing near-duplicate output.
type MessageGenerator struct {
	registry    *llm.Registry
	logger      *logrus.Logger
	turnTimeout time.Duration
}

// NewMessageGenerator creates a generator over the given provider registry.
// A zero turnTimeout disables the per-call deadline.
func NewMessageGenerator(registry *llm.Registry, logger *logrus.Logger, turnTimeout time.Duration) *MessageGenerator {
	if logger == nil {
		logger = logrus.New()
	}
	return &MessageGenerator{
		registry:    registry,
		logger:      logger,
		turnTimeout: turnTimeout,
	}
}

// Generate produces content for (stage, speaker). Backend failures resolve to
// placeholder content and duplicates resolve to a disambiguated variant, so
// the only errors are context cancellation and a non-generative stage.
func (g *MessageGenerator) Generate(
	ctx context.Context,
	config models.DebateConfig,
	stage models.Stage,
	speaker models.Speaker,
	prior []models.DebateMessage,
) (*GenerationOutcome, error) {
	if !IsGenerative(stage) {
		return nil, fmt.Errorf("stage %q does not produce turns", stage)
	}

	model := config.ModelFor(speaker)

	var content string
	var usedFallback bool

	for attempt := 1; attempt <= MaxGenerationAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, usedFallback = g.generateOnce(ctx, config, stage, speaker, model, prior)

		if !g.isDuplicate(content, prior) {
			return &GenerationOutcome{
				Content:  content,
				Fallback: usedFallback,
				Attempts: attempt,
			}, nil
		}

		metrics.RecordDuplicateRetry()
		g.logger.WithFields(logrus.Fields{
			"stage":   stage,
			"speaker": speaker,
			"attempt": attempt,
		}).Debug("Duplicate turn content, regenerating")
	}

	// All attempts were duplicates; keep the last result but disambiguate it
	// so the transcript never carries two identical turns.
	content = content + " " + disambiguationSuffix(speaker)

	return &GenerationOutcome{
		Content:   content,
		Fallback:  usedFallback,
		Exhausted: true,
		Attempts:  MaxGenerationAttempts,
	}, nil
}

// generateOnce runs a single backend attempt, falling back to placeholder
// content on any failure.
func (g *MessageGenerator) generateOnce(
	ctx context.Context,
	config models.DebateConfig,
	stage models.Stage,
	speaker models.Speaker,
	model models.AIModel,
	prior []models.DebateMessage,
) (string, bool) {
	provider, err := g.registry.Get(model.Provider)
	if err != nil {
		g.logger.WithError(err).WithField("provider", model.Provider).Warn("Provider unavailable, using fallback content")
		return g.fallbackContent(config, stage, speaker, model), true
	}

	callCtx := ctx
	if g.turnTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.turnTimeout)
		defer cancel()
	}

	req := &models.GenerationRequest{
		Model:            model,
		Stage:            stage,
		Position:         speaker,
		Topic:            config.Topic.Title,
		PreviousMessages: transcript(prior),
	}

	start := time.Now()
	resp, err := provider.GenerateTurn(callCtx, req)
	metrics.ObserveProviderDuration(model.Provider, time.Since(start).Seconds())

	if err != nil {
		g.logger.WithError(err).WithFields(logrus.Fields{
			"provider": model.Provider,
			"stage":    stage,
			"speaker":  speaker,
		}).Warn("Generation backend failed, using fallback content")
		return g.fallbackContent(config, stage, speaker, model), true
	}

	return resp.Content, false
}

// isDuplicate reports whether content near-duplicates any prior turn.
func (g *MessageGenerator) isDuplicate(content string, prior []models.DebateMessage) bool {
	folded := strings.ToLower(strings.TrimSpace(content))
	for _, msg := range prior {
		if strings.ToLower(strings.TrimSpace(msg.Content)) == folded {
			return true
		}
		if Similarity(msg.Content, content) >= DuplicateThreshold {
			return true
		}
	}
	return false
}

// fallbackContent synthesizes the deterministic placeholder used when the
// backend call fails.
func (g *MessageGenerator) fallbackContent(
	config models.DebateConfig,
	stage models.Stage,
	speaker models.Speaker,
	model models.AIModel,
) string {
	position := "賛成"
	if speaker == models.SpeakerCon {
		position = "反対"
	}
	return fmt.Sprintf(
		"【%sより】%sについて、%sの立場から%sの発言をします。%s: このメッセージは一時的なフォールバックです。API設定を確認してください。]",
		model.Name, config.Topic.Title, position, stageNamesJP[stage], FallbackMarker,
	)
}

func disambiguationSuffix(speaker models.Speaker) string {
	if speaker == models.SpeakerPro {
		return "[賛成側の追加意見]"
	}
	return "[反対側の追加意見]"
}

func transcript(prior []models.DebateMessage) []models.TranscriptEntry {
	entries := make([]models.TranscriptEntry, 0, len(prior))
	for _, msg := range prior {
		entries = append(entries, models.TranscriptEntry{
			Role:    msg.Speaker,
			Content: msg.Content,
		})
	}
	return entries
}
