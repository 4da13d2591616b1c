package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dev.helix.debate/internal/trends"
)

// TrendsHandler serves the trending-topic feed.
type TrendsHandler struct {
	service *trends.Service
	logger  *logrus.Logger
}

// NewTrendsHandler creates a trends handler.
func NewTrendsHandler(service *trends.Service, logger *logrus.Logger) *TrendsHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &TrendsHandler{
		service: service,
		logger:  logger,
	}
}

// GetTrends returns the current trend list. Never fails; degraded sources
// produce the seeded baseline.
// GET /api/trends
func (h *TrendsHandler) GetTrends(c *gin.Context) {
	list := h.service.CurrentTrends(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"trends":       list,
		"last_updated": time.Now(),
	})
}

// RefreshTrends forces a refresh of the trend feed. This is the scheduled
// entry point the cron job calls.
// POST /api/trends/refresh
func (h *TrendsHandler) RefreshTrends(c *gin.Context) {
	list, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Warn("Trend refresh failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "refresh_failed",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"trends":       list,
		"last_updated": time.Now(),
	})
}
