package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

func completionServer(t *testing.T, content string, got *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if got != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerateCompletion(t *testing.T) {
	var got chatRequest
	srv := completionServer(t, `{"ok":true}`, &got)

	c := NewClient(ClientOptions{APIKey: "test-key", BaseURL: srv.URL, Model: "test-model", JSONMode: true})
	out, err := c.GenerateCompletion(context.Background(), "system text", "user text")
	require.NoError(t, err)

	assert.Equal(t, `{"ok":true}`, out)
	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user text", got.Messages[1].Content)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
}

func TestGenerateCompletionEmpty(t *testing.T) {
	srv := completionServer(t, "  ", nil)

	c := NewClient(ClientOptions{APIKey: "test-key", BaseURL: srv.URL})
	_, err := c.GenerateCompletion(context.Background(), "", "prompt")
	assert.True(t, errors.Is(err, ErrEmptyCompletion))
}

func TestDefaultModel(t *testing.T) {
	assert.Equal(t, "gemini-2.0-flash", DefaultModel(ProviderGemini))
	assert.NotEmpty(t, DefaultModel(ProviderOpenAI))
	assert.Equal(t, "gemini-2.0-flash", NewClient(ClientOptions{Provider: ProviderGemini}).Model())
}
