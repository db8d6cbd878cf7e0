// ABOUTME: Tests for the OpenAI-compatible completion client
// ABOUTME: Uses an httptest server standing in for the provider endpoint

package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tucoach/interview-gateway/internal/config"
	"github.com/tucoach/interview-gateway/internal/prompt"
)

func fakeProvider(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func testClient(t *testing.T, srv *httptest.Server) *OpenAIClient {
	t.Helper()
	return NewOpenAIClient(config.ProviderConfig{
		BaseURL: srv.URL,
		APIKey:  "sk-test",
		Model:   "test-model",
		Timeout: 5 * time.Second,
	}, nil)
}

func promptContext() *prompt.Context {
	return &prompt.Context{
		System: "You are an interviewer.",
		Messages: []prompt.Message{
			{Role: "user", Content: "Hi"},
		},
	}
}

func TestComplete_Success(t *testing.T) {
	var gotBody map[string]any
	srv := fakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": "Tell me about your backend experience.",
					},
				},
			},
			"usage": map[string]any{
				"prompt_tokens":     42,
				"completion_tokens": 9,
				"total_tokens":      51,
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	client := testClient(t, srv)
	result, err := client.Complete(context.Background(), promptContext())
	require.NoError(t, err)

	assert.Equal(t, "Tell me about your backend experience.", result.Text)
	assert.Equal(t, int64(42), result.Usage.PromptTokens)
	assert.Equal(t, int64(9), result.Usage.CompletionTokens)
	assert.Equal(t, int64(51), result.Usage.TotalTokens)

	// System instruction travels first, new user message last
	msgs, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	first := msgs[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
}

func TestComplete_ProviderError(t *testing.T) {
	srv := fakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "invalid api key"}}`, http.StatusUnauthorized)
	})

	client := testClient(t, srv)
	_, err := client.Complete(context.Background(), promptContext())
	require.Error(t, err)
}

func TestComplete_NoChoices(t *testing.T) {
	srv := fakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"id":      "cmpl-2",
			"object":  "chat.completion",
			"model":   "test-model",
			"choices": []map[string]any{},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	client := testClient(t, srv)
	_, err := client.Complete(context.Background(), promptContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no content choices")
}

func TestComplete_EmptyGeneration(t *testing.T) {
	srv := fakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"id":     "cmpl-3",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": "",
					},
				},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	client := testClient(t, srv)
	_, err := client.Complete(context.Background(), promptContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty generation")
}

func TestComplete_TimeoutSurfacesAsError(t *testing.T) {
	srv := fakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	client := NewOpenAIClient(config.ProviderConfig{
		BaseURL: srv.URL,
		Model:   "test-model",
		Timeout: 50 * time.Millisecond,
	}, nil)

	start := time.Now()
	_, err := client.Complete(context.Background(), promptContext())
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second, "non-response must fail fast, not hang")
}
