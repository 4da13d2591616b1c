package handlers

import "dev.helix.debate/internal/models"

// DefaultModels is the built-in model catalog offered on the setup screen
// when the database holds no custom entries.
func DefaultModels() []models.AIModel {
	return []models.AIModel{
		{
			ID:          "gpt-4o",
			Name:        "GPT-4o",
			Provider:    "openai",
			Description: "論理的で体系的な議論を得意とするモデル",
			Avatar:      "🟢",
		},
		{
			ID:          "claude-3-5-sonnet",
			Name:        "Claude 3.5 Sonnet",
			Provider:    "claude",
			Description: "慎重でバランスの取れた分析を行うモデル",
			Avatar:      "🟠",
		},
		{
			ID:          "gemini-1-5-pro",
			Name:        "Gemini 1.5 Pro",
			Provider:    "gemini",
			Description: "幅広い知識と多角的な視点を持つモデル",
			Avatar:      "🔵",
		},
	}
}

// DefaultTopics is the built-in topic catalog offered alongside the live
// trends feed.
func DefaultTopics() []models.DebateTopic {
	return []models.DebateTopic{
		{
			ID:          "ai-employment",
			Title:       "AIは人間の雇用を奪うか",
			Description: "生成AIの普及が労働市場に与える影響を議論する",
			Category:    "テクノロジー",
			Trending:    true,
		},
		{
			ID:          "remote-work",
			Title:       "リモートワークは企業の生産性を高めるか",
			Description: "働き方の変化と組織文化への影響を議論する",
			Category:    "ビジネス",
		},
		{
			ID:          "nuclear-energy",
			Title:       "原子力発電は気候変動対策として推進すべきか",
			Description: "エネルギー政策と環境リスクのバランスを議論する",
			Category:    "環境",
		},
		{
			ID:          "basic-income",
			Title:       "ベーシックインカムを導入すべきか",
			Description: "社会保障制度の再設計について議論する",
			Category:    "社会",
		},
	}
}
