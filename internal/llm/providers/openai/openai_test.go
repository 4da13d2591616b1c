package openai

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
		Model:    models.AIModel{Name: "GPT-4o", Provider: "openai"},
		Stage:    models.StageOpening,
		Position: models.SpeakerPro,
		Topic:    "ベーシックインカムを導入すべきか",
	}
}

func TestGenerateTurn_Success(t *testing.T) {
	var captured openAIRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := openAIResponse{ID: "chatcmpl-1"}
		resp.Choices = append(resp.Choices, struct {
			Index        int           `json:"index"`
			Message      openAIMessage `json:"message"`
			FinishReason string        `json:"finish_reason"`
		}{
			Message:      openAIMessage{Role: "assistant", Content: "賛成の立場から主張します。"},
			FinishReason: "stop",
		})
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider := NewOpenAIProvider("test-key", server.URL, "")

	resp, err := provider.GenerateTurn(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "賛成の立場から主張します。", resp.Content)

	assert.Equal(t, OpenAIModel, captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Contains(t, captured.Messages[0].Content, "ベーシックインカムを導入すべきか")
}

func TestGenerateTurn_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("bad-key", server.URL, "")

	_, err := provider.GenerateTurn(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestGenerateTurn_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(openAIResponse{ID: "chatcmpl-1"})
	}))
	defer server.Close()

	provider := NewOpenAIProvider("test-key", server.URL, "")

	_, err := provider.GenerateTurn(context.Background(), testRequest())
	assert.Error(t, err)
}

func TestGenerateTurn_CustomModel(t *testing.T) {
	var captured openAIRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewOpenAIProvider("test-key", server.URL, "gpt-4o-mini")
	provider.GenerateTurn(context.Background(), testRequest())

	assert.Equal(t, "gpt-4o-mini", captured.Model)
}

func TestHealthCheck(t *testing.T) {
	assert.NoError(t, NewOpenAIProvider("key", "", "").HealthCheck(context.Background()))
	assert.Error(t, NewOpenAIProvider("", "", "").HealthCheck(context.Background()))
}
