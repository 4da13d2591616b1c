package debate

import "dev.helix.debate/internal/models"

// StageOrder is the authoritative progression of a debate. Setup and summary
// are non-generative bookends; no turns are ever produced in them.
var StageOrder = []models.Stage{
	models.StageSetup,
	models.StageOpening,
	models.StageRebuttal,
	models.StageClosing,
	models.StageSummary,
}

// StagePolicy carries the per-stage turn limits. The sequencer itself holds no
// mutable state, so a policy value is safe to share across sessions.
type StagePolicy struct {
	OpeningTurns  int
	RebuttalTurns int
	ClosingTurns  int
}

// DefaultStagePolicy returns the canonical 2/4/2 limits.
func DefaultStagePolicy() StagePolicy {
	return StagePolicy{
		OpeningTurns:  2,
		RebuttalTurns: 4,
		ClosingTurns:  2,
	}
}

// UniformStagePolicy returns a policy with the same limit for every generative
// stage, e.g. UniformStagePolicy(4) for the legacy 4/4/4 behavior.
func UniformStagePolicy(n int) StagePolicy {
	return StagePolicy{
		OpeningTurns:  n,
		RebuttalTurns: n,
		ClosingTurns:  n,
	}
}

// TurnLimit returns how many turns the given stage produces before it closes.
// Setup and summary always return 0.
func (p StagePolicy) TurnLimit(stage models.Stage) int {
	switch stage {
	case models.StageOpening:
		return p.OpeningTurns
	case models.StageRebuttal:
		return p.RebuttalTurns
	case models.StageClosing:
		return p.ClosingTurns
	default:
		return 0
	}
}

// IsStageComplete reports whether the stage has produced enough turns to close.
func (p StagePolicy) IsStageComplete(stage models.Stage, turnsInStage int) bool {
	return turnsInStage >= p.TurnLimit(stage)
}

// Advance returns the stage that follows the given one. The terminal summary
// stage advances to itself.
func Advance(stage models.Stage) models.Stage {
	for i, s := range StageOrder {
		if s == stage {
			if i < len(StageOrder)-1 {
				return StageOrder[i+1]
			}
			return stage
		}
	}
	return stage
}

// IsGenerative reports whether turns are produced while in the given stage.
func IsGenerative(stage models.Stage) bool {
	switch stage {
	case models.StageOpening, models.StageRebuttal, models.StageClosing:
		return true
	default:
		return false
	}
}
