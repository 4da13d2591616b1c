package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dev.helix.debate/internal/database"
	"dev.helix.debate/internal/debate"
	"dev.helix.debate/internal/models"
)

// DebateHandler exposes the debate session lifecycle over HTTP.
type DebateHandler struct {
	manager *SessionManager
	repo    *database.DebateRepository
	logger  *logrus.Logger
}

// NewDebateHandler creates a debate handler. The repository may be nil, in
// which case finished debates are not persisted.
func NewDebateHandler(manager *SessionManager, repo *database.DebateRepository, logger *logrus.Logger) *DebateHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &DebateHandler{
		manager: manager,
		repo:    repo,
		logger:  logger,
	}
}

// CreateDebateRequest is the payload for starting a new debate.
type CreateDebateRequest struct {
	Topic    models.DebateTopic `json:"topic" binding:"required"`
	ProModel models.AIModel     `json:"pro_model" binding:"required"`
	ConModel models.AIModel     `json:"con_model" binding:"required"`
	Duration int                `json:"duration"`
}

// CreateDebate creates a session and starts it immediately.
// POST /api/debates
func (h *DebateHandler) CreateDebate(c *gin.Context) {
	var req CreateDebateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}
	if req.Topic.Title == "" || req.ProModel.Name == "" || req.ConModel.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "topic, pro_model and con_model are required",
		})
		return
	}

	session := h.manager.Create(models.DebateConfig{
		Topic:    req.Topic,
		ProModel: req.ProModel,
		ConModel: req.ConModel,
		Duration: req.Duration,
	})
	if err := session.Start(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "start_failed",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, session.Snapshot())
}

// AdvanceTurn produces the next turn of the debate.
// POST /api/debates/:id/turn
func (h *DebateHandler) AdvanceTurn(c *gin.Context) {
	session, err := h.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "session_not_found",
			"message": err.Error(),
		})
		return
	}

	msg, err := session.AdvanceTurn(c.Request.Context())
	if err != nil {
		status := http.StatusInternalServerError
		code := "turn_failed"
		switch {
		case errors.Is(err, debate.ErrTurnInProgress):
			status = http.StatusConflict
			code = "turn_in_progress"
		case errors.Is(err, debate.ErrSessionClosed):
			status = http.StatusConflict
			code = "session_closed"
		case errors.Is(err, debate.ErrNotStarted):
			status = http.StatusConflict
			code = "not_started"
		case errors.Is(err, debate.ErrSessionHalted):
			status = http.StatusConflict
			code = "session_halted"
		}
		c.JSON(status, gin.H{
			"error":   code,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": msg,
		"state":   session.Snapshot(),
	})
}

// GetDebate returns a consistent snapshot of a live session, falling back to
// the database for finished debates.
// GET /api/debates/:id
func (h *DebateHandler) GetDebate(c *gin.Context) {
	id := c.Param("id")

	if session, err := h.manager.Get(id); err == nil {
		c.JSON(http.StatusOK, session.Snapshot())
		return
	}

	if h.repo != nil {
		if state, err := h.repo.GetDebate(c.Request.Context(), id); err == nil {
			c.JSON(http.StatusOK, state)
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{
		"error":   "debate_not_found",
		"message": "Debate not found: " + id,
	})
}

// VoteRequest carries the audience verdict.
type VoteRequest struct {
	Winner models.Winner `json:"winner" binding:"required"`
}

// Vote finalizes the debate with the audience verdict, persists the finished
// state when a repository is configured, and returns the final snapshot.
// POST /api/debates/:id/vote
func (h *DebateHandler) Vote(c *gin.Context) {
	session, err := h.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "session_not_found",
			"message": err.Error(),
		})
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	if err := session.Vote(req.Winner); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_winner",
			"message": err.Error(),
		})
		return
	}

	state := session.Snapshot()
	if h.repo != nil {
		if _, err := h.repo.SaveDebate(c.Request.Context(), &state); err != nil {
			h.logger.WithError(err).WithField("session", state.ID).Warn("Failed to persist finished debate")
		}
	}

	c.JSON(http.StatusOK, state)
}

// QuestionRequest carries one audience question.
type QuestionRequest struct {
	Question string `json:"question" binding:"required"`
	Author   string `json:"author"`
}

// AddQuestion appends an audience question to a live session.
// POST /api/debates/:id/questions
func (h *DebateHandler) AddQuestion(c *gin.Context) {
	session, err := h.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "session_not_found",
			"message": err.Error(),
		})
		return
	}

	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	q := session.AddAudienceQuestion(req.Question, req.Author)
	c.JSON(http.StatusCreated, q)
}

// UpvoteQuestion increments an audience question's vote counter.
// POST /api/debates/:id/questions/:qid/upvote
func (h *DebateHandler) UpvoteQuestion(c *gin.Context) {
	session, err := h.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "session_not_found",
			"message": err.Error(),
		})
		return
	}

	if !session.UpvoteQuestion(c.Param("qid")) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "question_not_found",
			"message": "Question not found: " + c.Param("qid"),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// AddReaction increments a message's reaction counter.
// POST /api/debates/:id/messages/:mid/reactions
func (h *DebateHandler) AddReaction(c *gin.Context) {
	session, err := h.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "session_not_found",
			"message": err.Error(),
		})
		return
	}

	if !session.AddReaction(c.Param("mid")) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "message_not_found",
			"message": "Message not found: " + c.Param("mid"),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListRecent returns the most recently persisted debates.
// GET /api/debates/recent
func (h *DebateHandler) ListRecent(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusOK, gin.H{"debates": []models.DebateSummary{}})
		return
	}

	summaries, err := h.repo.ListRecent(c.Request.Context(), 10)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to list recent debates")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "list_failed",
			"message": "Failed to load recent debates",
		})
		return
	}
	if summaries == nil {
		summaries = []models.DebateSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"debates": summaries})
}
