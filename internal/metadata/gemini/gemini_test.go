package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiameta/internal/config"
	"kiameta/internal/metadata/gemini"
)

func newTestClient(serverURL string) *gemini.Client {
	cfg := &config.GeminiConfig{
		APIKey:      "test-gemini-key",
		Model:       "gemini-2.0-flash",
		TimeoutSecs: 30,
	}
	return gemini.NewClientWithEndpoint(cfg, serverURL)
}

func successResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"role": "model",
					"parts": []map[string]interface{}{
						{"text": text},
					},
				},
				"finishReason": "STOP",
			},
		},
	}
}

func TestClient_Infer_Success(t *testing.T) {
	llmJSON := `{"type":"SUV","source":"document","region":"Europe","country":"Germany",` +
		`"model":"EV6","xev":"BEV","year1":"2024","year2":"2024","language":"en",` +
		`"version":"","file_format":"pdf","content_summary":"EV6 launch brochure"}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-gemini-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		contents := reqBody["contents"].([]interface{})
		require.Len(t, contents, 1)
		msg := contents[0].(map[string]interface{})
		assert.Equal(t, "user", msg["role"])

		parts := msg["parts"].([]interface{})
		require.Len(t, parts, 1)
		textPart := parts[0].(map[string]interface{})
		assert.Contains(t, textPart["text"], "instruction text")
		assert.Contains(t, textPart["text"], "document body")

		genConfig := reqBody["generationConfig"].(map[string]interface{})
		assert.Equal(t, "application/json", genConfig["responseMimeType"])
		assert.Equal(t, float64(0), genConfig["temperature"])
		assert.Equal(t, float64(2048), genConfig["maxOutputTokens"])

		w.WriteHeader(http.StatusOK)
		require.NoError(t, json.NewEncoder(w).Encode(successResponse(llmJSON)))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	md, err := c.Infer(context.Background(), "instruction text", "document body")
	require.NoError(t, err)

	assert.Equal(t, "SUV", md.Type)
	assert.Equal(t, "EV6", md.Model)
	assert.Equal(t, "BEV", md.XEV)
	assert.Equal(t, "Germany", md.Country)
	assert.Equal(t, "pdf", md.FileFormat)
	assert.Equal(t, "EV6 launch brochure", md.ContentSummary)
}

func TestClient_Infer_NonOKStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.Infer(context.Background(), "instruction", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestClient_Infer_NoCandidatesIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.Infer(context.Background(), "instruction", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestClient_Infer_MalformedLLMJSONIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		require.NoError(t, json.NewEncoder(w).Encode(successResponse("this is not json")))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.Infer(context.Background(), "instruction", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing LLM JSON output")
	assert.Contains(t, err.Error(), "this is not json")
}
