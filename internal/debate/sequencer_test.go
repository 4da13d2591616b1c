package debate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dev.helix.debate/internal/models"
)

func TestDefaultStagePolicy_TurnLimits(t *testing.T) {
	policy := DefaultStagePolicy()

	assert.Equal(t, 0, policy.TurnLimit(models.StageSetup))
	assert.Equal(t, 2, policy.TurnLimit(models.StageOpening))
	assert.Equal(t, 4, policy.TurnLimit(models.StageRebuttal))
	assert.Equal(t, 2, policy.TurnLimit(models.StageClosing))
	assert.Equal(t, 0, policy.TurnLimit(models.StageSummary))
}

func TestUniformStagePolicy(t *testing.T) {
	policy := UniformStagePolicy(4)

	assert.Equal(t, 4, policy.TurnLimit(models.StageOpening))
	assert.Equal(t, 4, policy.TurnLimit(models.StageRebuttal))
	assert.Equal(t, 4, policy.TurnLimit(models.StageClosing))
}

func TestStagePolicy_IsStageComplete(t *testing.T) {
	policy := DefaultStagePolicy()

	assert.False(t, policy.IsStageComplete(models.StageOpening, 0))
	assert.False(t, policy.IsStageComplete(models.StageOpening, 1))
	assert.True(t, policy.IsStageComplete(models.StageOpening, 2))
	assert.True(t, policy.IsStageComplete(models.StageOpening, 3))

	// Non-generative stages are complete from the start.
	assert.True(t, policy.IsStageComplete(models.StageSetup, 0))
	assert.True(t, policy.IsStageComplete(models.StageSummary, 0))
}

func TestAdvance_FollowsStageOrder(t *testing.T) {
	assert.Equal(t, models.StageOpening, Advance(models.StageSetup))
	assert.Equal(t, models.StageRebuttal, Advance(models.StageOpening))
	assert.Equal(t, models.StageClosing, Advance(models.StageRebuttal))
	assert.Equal(t, models.StageSummary, Advance(models.StageClosing))
}

func TestAdvance_SummaryIsTerminal(t *testing.T) {
	assert.Equal(t, models.StageSummary, Advance(models.StageSummary))
	// Repeated advancement stays put.
	assert.Equal(t, models.StageSummary, Advance(Advance(models.StageSummary)))
}

func TestAdvance_UnknownStage(t *testing.T) {
	unknown := models.Stage("intermission")
	assert.Equal(t, unknown, Advance(unknown))
}

func TestIsGenerative(t *testing.T) {
	assert.False(t, IsGenerative(models.StageSetup))
	assert.True(t, IsGenerative(models.StageOpening))
	assert.True(t, IsGenerative(models.StageRebuttal))
	assert.True(t, IsGenerative(models.StageClosing))
	assert.False(t, IsGenerative(models.StageSummary))
}
