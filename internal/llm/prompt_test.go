package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dev.helix.debate/internal/models"
)

func promptRequest(stage models.Stage, position models.Speaker, prior ...models.TranscriptEntry) *models.GenerationRequest {
	return &models.GenerationRequest{
		Model:            models.AIModel{Name: "GPT-4o", Provider: "openai"},
		Stage:            stage,
		Position:         position,
		Topic:            "AIは人間の雇用を奪うか",
		PreviousMessages: prior,
	}
}

func TestBuildSystemPrompt_CarriesTopicAndPosition(t *testing.T) {
	prompt := BuildSystemPrompt(promptRequest(models.StageOpening, models.SpeakerPro))

	assert.Contains(t, prompt, "AIは人間の雇用を奪うか")
	assert.Contains(t, prompt, "賛成")
	assert.Contains(t, prompt, "初期主張")
}

func TestBuildSystemPrompt_ConPosition(t *testing.T) {
	prompt := BuildSystemPrompt(promptRequest(models.StageOpening, models.SpeakerCon))
	assert.Contains(t, prompt, "反対")
}

func TestBuildSystemPrompt_RebuttalInstructions(t *testing.T) {
	prompt := BuildSystemPrompt(promptRequest(models.StageRebuttal, models.SpeakerPro))
	assert.Contains(t, prompt, "反駁")
	assert.Contains(t, prompt, "相手の主張")
}

func TestBuildUserPrompt_OpeningWithoutPrior(t *testing.T) {
	prompt := BuildUserPrompt(promptRequest(models.StageOpening, models.SpeakerPro))
	assert.Contains(t, prompt, "議論を始めてください")
	assert.Contains(t, prompt, "賛成")
}

func TestBuildUserPrompt_RebuttalQuotesOpponent(t *testing.T) {
	prompt := BuildUserPrompt(promptRequest(
		models.StageRebuttal, models.SpeakerCon,
		models.TranscriptEntry{Role: models.SpeakerPro, Content: "AIは生産性を高めるので雇用は増える"},
	))

	assert.Contains(t, prompt, "AIは生産性を高めるので雇用は増える")
	assert.Contains(t, prompt, "反駁")
}

func TestBuildUserPrompt_RebuttalPicksLatestOpponentMessage(t *testing.T) {
	prompt := BuildUserPrompt(promptRequest(
		models.StageRebuttal, models.SpeakerCon,
		models.TranscriptEntry{Role: models.SpeakerPro, Content: "最初の賛成意見"},
		models.TranscriptEntry{Role: models.SpeakerCon, Content: "最初の反対意見"},
		models.TranscriptEntry{Role: models.SpeakerPro, Content: "直近の賛成意見"},
	))

	assert.Contains(t, prompt, "直近の賛成意見")
	assert.NotContains(t, prompt, "最初の賛成意見")
}

func TestBuildUserPrompt_Closing(t *testing.T) {
	prompt := BuildUserPrompt(promptRequest(models.StageClosing, models.SpeakerPro))
	assert.Contains(t, prompt, "最終主張")
	assert.Contains(t, prompt, "AIは人間の雇用を奪うか")
}

func TestBuildUserPrompt_ClosingIgnoresTranscript(t *testing.T) {
	prompt := BuildUserPrompt(promptRequest(
		models.StageClosing, models.SpeakerPro,
		models.TranscriptEntry{Role: models.SpeakerCon, Content: "反対側の主張"},
	))
	// The closing prompt summarizes, it never rebuts a specific message.
	assert.NotContains(t, prompt, "反対側の主張")
}
