package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev.helix.debate/internal/models"
)

func testRequest() *models.GenerationRequest {
	return &models.GenerationRequest{
		Model:    models.AIModel{Name: "Gemini 1.5 Pro", Provider: "gemini"},
		Stage:    models.StageClosing,
		Position: models.SpeakerCon,
		Topic:    "原子力発電は気候変動対策として推進すべきか",
	}
}

func TestGenerateTurn_Success(t *testing.T) {
	var captured geminiRequest
	var gotPath, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := geminiResponse{}
		resp.Candidates = append(resp.Candidates, struct {
			Content      geminiContent `json:"content"`
			FinishReason string        `json:"finishReason"`
		}{
			Content:      geminiContent{Role: "model", Parts: []geminiPart{{Text: "最終的な結論を述べます。"}}},
			FinishReason: "STOP",
		})
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider := NewGeminiProvider("test-key", server.URL, "")

	resp, err := provider.GenerateTurn(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "最終的な結論を述べます。", resp.Content)

	assert.Equal(t, "/"+GeminiModel+":generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.NotNil(t, captured.SystemInstruction)
	assert.Contains(t, captured.SystemInstruction.Parts[0].Text, "原子力発電")
	require.Len(t, captured.Contents, 1)
	assert.Equal(t, "user", captured.Contents[0].Role)
}

func TestGenerateTurn_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"status":"PERMISSION_DENIED"}}`))
	}))
	defer server.Close()

	provider := NewGeminiProvider("test-key", server.URL, "")

	_, err := provider.GenerateTurn(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestGenerateTurn_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(geminiResponse{})
	}))
	defer server.Close()

	provider := NewGeminiProvider("test-key", server.URL, "")

	_, err := provider.GenerateTurn(context.Background(), testRequest())
	assert.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	assert.NoError(t, NewGeminiProvider("key", "", "").HealthCheck(context.Background()))
	assert.Error(t, NewGeminiProvider("", "", "").HealthCheck(context.Background()))
}
