package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dev.helix.debate/internal/evidence"
	"dev.helix.debate/internal/models"
)

// EvidenceHandler exposes the evidence search directly, mainly for the
// research panel in the UI.
type EvidenceHandler struct {
	service *evidence.Service
	logger  *logrus.Logger
}

// NewEvidenceHandler creates an evidence handler.
func NewEvidenceHandler(service *evidence.Service, logger *logrus.Logger) *EvidenceHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &EvidenceHandler{
		service: service,
		logger:  logger,
	}
}

// Search runs an evidence lookup for the given query and topic.
// POST /api/evidence/search
func (h *EvidenceHandler) Search(c *gin.Context) {
	var query models.EvidenceQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	results, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "search_failed",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"evidence": results,
		"count":    len(results),
	})
}
