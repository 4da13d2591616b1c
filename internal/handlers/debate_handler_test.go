package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev.helix.debate/internal/debate"
	"dev.helix.debate/internal/llm"
	"dev.helix.debate/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// newTestEngine builds a router with no providers configured, so every turn
// resolves to fallback content without touching the network.
func newTestEngine(t *testing.T) (*gin.Engine, *SessionManager) {
	t.Helper()

	logger := testLogger()
	registry := llm.NewRegistry(logger)
	generator := debate.NewMessageGenerator(registry, logger, 0)
	attacher := debate.NewEvidenceAttacher(nil, logger, 0)
	manager := NewSessionManager(generator, attacher, debate.DefaultStagePolicy(), logger)

	engine := gin.New()
	router := &Router{
		Debate: NewDebateHandler(manager, nil, logger),
		Config: NewConfigHandler(registry, nil, nil, logger),
	}

	engine.POST("/api/debates", router.Debate.CreateDebate)
	engine.GET("/api/debates/recent", router.Debate.ListRecent)
	engine.GET("/api/debates/:id", router.Debate.GetDebate)
	engine.POST("/api/debates/:id/turn", router.Debate.AdvanceTurn)
	engine.POST("/api/debates/:id/vote", router.Debate.Vote)
	engine.POST("/api/debates/:id/questions", router.Debate.AddQuestion)
	engine.POST("/api/debates/:id/questions/:qid/upvote", router.Debate.UpvoteQuestion)
	engine.POST("/api/debates/:id/messages/:mid/reactions", router.Debate.AddReaction)
	engine.GET("/api/ai/config", router.Config.GetAIConfig)
	engine.GET("/api/models", router.Config.GetModels)
	engine.GET("/api/topics", router.Config.GetTopics)

	return engine, manager
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func createDebate(t *testing.T, engine *gin.Engine) models.DebateState {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/api/debates", CreateDebateRequest{
		Topic:    models.DebateTopic{ID: "t1", Title: "AIは人間の雇用を奪うか"},
		ProModel: models.AIModel{ID: "gpt-4o", Name: "GPT-4o", Provider: "openai"},
		ConModel: models.AIModel{ID: "claude", Name: "Claude 3.5 Sonnet", Provider: "claude"},
		Duration: 5,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var state models.DebateState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	return state
}

func TestCreateDebate(t *testing.T) {
	engine, _ := newTestEngine(t)

	state := createDebate(t, engine)
	assert.NotEmpty(t, state.ID)
	assert.Equal(t, models.StageOpening, state.Stage)
	assert.Equal(t, models.SpeakerPro, state.CurrentSpeaker)
	assert.Empty(t, state.Messages)
}

func TestCreateDebate_MissingFields(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := doJSON(t, engine, http.MethodPost, "/api/debates", map[string]interface{}{
		"topic": map[string]string{"title": "題目のみ"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdvanceTurn(t *testing.T) {
	engine, _ := newTestEngine(t)
	state := createDebate(t, engine)

	w := doJSON(t, engine, http.MethodPost, "/api/debates/"+state.ID+"/turn", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message *models.DebateMessage `json:"message"`
		State   models.DebateState    `json:"state"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Message)
	assert.Equal(t, models.SpeakerPro, resp.Message.Speaker)
	assert.Contains(t, resp.Message.Content, debate.FallbackMarker)
	assert.Equal(t, models.SpeakerCon, resp.State.CurrentSpeaker)
	assert.Len(t, resp.State.Messages, 1)
}

func TestAdvanceTurn_UnknownSession(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := doJSON(t, engine, http.MethodPost, "/api/debates/missing/turn", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetDebate(t *testing.T) {
	engine, _ := newTestEngine(t)
	state := createDebate(t, engine)

	w := doJSON(t, engine, http.MethodGet, "/api/debates/"+state.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.DebateState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, state.ID, got.ID)
}

func TestGetDebate_NotFound(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := doJSON(t, engine, http.MethodGet, "/api/debates/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVote_FinalizesDebate(t *testing.T) {
	engine, _ := newTestEngine(t)
	state := createDebate(t, engine)

	w := doJSON(t, engine, http.MethodPost, "/api/debates/"+state.ID+"/vote", VoteRequest{Winner: models.WinnerPro})
	require.Equal(t, http.StatusOK, w.Code)

	var final models.DebateState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &final))
	assert.Equal(t, models.WinnerPro, final.Winner)
	assert.Equal(t, models.StageSummary, final.Stage)
	assert.NotEmpty(t, final.Summary)

	// The session no longer accepts turns.
	w = doJSON(t, engine, http.MethodPost, "/api/debates/"+state.ID+"/turn", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestVote_InvalidWinner(t *testing.T) {
	engine, _ := newTestEngine(t)
	state := createDebate(t, engine)

	w := doJSON(t, engine, http.MethodPost, "/api/debates/"+state.ID+"/vote", map[string]string{"winner": "both"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddQuestionAndUpvote(t *testing.T) {
	engine, _ := newTestEngine(t)
	state := createDebate(t, engine)

	w := doJSON(t, engine, http.MethodPost, "/api/debates/"+state.ID+"/questions", QuestionRequest{
		Question: "AIの判断基準は何ですか？",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var q models.AudienceQuestion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
	assert.Equal(t, "Anonymous", q.Author)

	w = doJSON(t, engine, http.MethodPost, fmt.Sprintf("/api/debates/%s/questions/%s/upvote", state.ID, q.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/debates/"+state.ID+"/questions/missing/upvote", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddReaction(t *testing.T) {
	engine, _ := newTestEngine(t)
	state := createDebate(t, engine)

	w := doJSON(t, engine, http.MethodPost, "/api/debates/"+state.ID+"/turn", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Message *models.DebateMessage `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = doJSON(t, engine, http.MethodPost, fmt.Sprintf("/api/debates/%s/messages/%s/reactions", state.ID, resp.Message.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/debates/"+state.ID+"/messages/missing/reactions", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRecent_NoRepository(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := doJSON(t, engine, http.MethodGet, "/api/debates/recent", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Debates []models.DebateSummary `json:"debates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Debates)
}

func TestGetAIConfig_NoProviders(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := doJSON(t, engine, http.MethodGet, "/api/ai/config", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		OpenAI    bool     `json:"openai"`
		Gemini    bool     `json:"gemini"`
		Claude    bool     `json:"claude"`
		HasAnyKey bool     `json:"has_any_key"`
		Providers []string `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.OpenAI)
	assert.False(t, resp.Gemini)
	assert.False(t, resp.Claude)
	assert.False(t, resp.HasAnyKey)
	assert.Empty(t, resp.Providers)
}

func TestGetModelsAndTopics(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := doJSON(t, engine, http.MethodGet, "/api/models", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var modelsResp struct {
		Models []models.AIModel `json:"models"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &modelsResp))
	assert.Len(t, modelsResp.Models, 3)

	w = doJSON(t, engine, http.MethodGet, "/api/topics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var topicsResp struct {
		Topics []models.DebateTopic `json:"topics"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &topicsResp))
	assert.NotEmpty(t, topicsResp.Topics)
}

func TestSessionManager_CreateGetRemove(t *testing.T) {
	_, manager := newTestEngine(t)

	session := manager.Create(models.DebateConfig{
		Topic:    models.DebateTopic{Title: "テスト議題"},
		ProModel: models.AIModel{Name: "GPT-4o", Provider: "openai"},
		ConModel: models.AIModel{Name: "Claude", Provider: "claude"},
	})
	require.NotNil(t, session)
	assert.Equal(t, 1, manager.Count())

	got, err := manager.Get(session.ID())
	require.NoError(t, err)
	assert.Equal(t, session, got)

	manager.Remove(session.ID())
	assert.Equal(t, 0, manager.Count())

	_, err = manager.Get(session.ID())
	assert.Error(t, err)
}
