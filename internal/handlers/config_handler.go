package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dev.helix.debate/internal/database"
	"dev.helix.debate/internal/llm"
)

// ConfigHandler reports which generation backends are usable and serves the
// topic/model catalogs, so the setup screen can grey out models whose provider
// has no credentials.
type ConfigHandler struct {
	registry *llm.Registry
	topics   *database.TopicRepository
	models   *database.ModelRepository
	logger   *logrus.Logger
}

// NewConfigHandler creates a config handler over the provider registry. The
// catalog repositories may be nil; the built-in catalogs are served instead.
func NewConfigHandler(
	registry *llm.Registry,
	topics *database.TopicRepository,
	modelRepo *database.ModelRepository,
	logger *logrus.Logger,
) *ConfigHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &ConfigHandler{
		registry: registry,
		topics:   topics,
		models:   modelRepo,
		logger:   logger,
	}
}

// GetAIConfig returns per-provider availability flags.
// GET /api/ai/config
func (h *ConfigHandler) GetAIConfig(c *gin.Context) {
	available := h.registry.Available()
	flags := map[string]bool{
		"openai": false,
		"gemini": false,
		"claude": false,
	}
	for _, name := range available {
		flags[name] = true
	}

	c.JSON(http.StatusOK, gin.H{
		"openai":      flags["openai"],
		"gemini":      flags["gemini"],
		"claude":      flags["claude"],
		"has_any_key": len(available) > 0,
		"providers":   available,
	})
}

// GetModels returns the model catalog, preferring database entries over the
// built-in defaults.
// GET /api/models
func (h *ConfigHandler) GetModels(c *gin.Context) {
	if h.models != nil {
		list, err := h.models.List(c.Request.Context())
		if err != nil {
			h.logger.WithError(err).Warn("Failed to load model catalog, serving defaults")
		} else if len(list) > 0 {
			c.JSON(http.StatusOK, gin.H{"models": list})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"models": DefaultModels()})
}

// GetTopics returns the topic catalog, preferring database entries over the
// built-in defaults.
// GET /api/topics
func (h *ConfigHandler) GetTopics(c *gin.Context) {
	if h.topics != nil {
		list, err := h.topics.List(c.Request.Context())
		if err != nil {
			h.logger.WithError(err).Warn("Failed to load topic catalog, serving defaults")
		} else if len(list) > 0 {
			c.JSON(http.StatusOK, gin.H{"topics": list})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"topics": DefaultTopics()})
}
