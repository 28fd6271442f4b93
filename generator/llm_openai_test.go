package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
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
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

func newCompletionServer(t *testing.T, status int, body string, seen *chatRequest, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAILLMComplete(t *testing.T) {
	var seen chatRequest
	var hits int32
	srv := newCompletionServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "llama-3.3-70b-versatile",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "hello there"}}]
	}`, &seen, &hits)

	llm, err := NewOpenAILLMFromConfig(&LLMSettings{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	got, err := llm.Complete(context.Background(), CompletionRequest{
		Model:       "llama-3.3-70b-versatile",
		Prompt:      Prompt{User: "write captions"},
		MaxTokens:   800,
		Temperature: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", got)

	assert.Equal(t, "llama-3.3-70b-versatile", seen.Model)
	require.Len(t, seen.Messages, 1)
	assert.Equal(t, "user", seen.Messages[0].Role)
	assert.Equal(t, "write captions", seen.Messages[0].Content)
	assert.Equal(t, 800, seen.MaxTokens)
	assert.Equal(t, 0.0, seen.Temperature)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestOpenAILLMCompleteErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind ErrorKind
	}{
		{
			name:     "bad key",
			status:   http.StatusUnauthorized,
			body:     `{"error": {"message": "Invalid API Key", "type": "invalid_request_error", "code": "invalid_api_key"}}`,
			wantKind: ErrorAuth,
		},
		{
			name:     "overloaded",
			status:   http.StatusServiceUnavailable,
			body:     `{"error": {"message": "over capacity", "type": "internal_error"}}`,
			wantKind: ErrorService,
		},
		{
			name:     "no choices",
			status:   http.StatusOK,
			body:     `{"id": "x", "object": "chat.completion", "created": 1, "model": "m", "choices": []}`,
			wantKind: ErrorEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits int32
			srv := newCompletionServer(t, tt.status, tt.body, nil, &hits)
			llm, err := NewOpenAILLMFromConfig(&LLMSettings{APIKey: "test-key", BaseURL: srv.URL + "/"})
			require.NoError(t, err)

			_, err = llm.Complete(context.Background(), CompletionRequest{Model: "m", Prompt: Prompt{User: "hi"}})

			var ce *CompletionError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.wantKind, ce.Kind)
			if tt.status != http.StatusOK {
				assert.Equal(t, tt.status, ce.StatusCode)
			}
			assert.EqualValues(t, 1, atomic.LoadInt32(&hits), "exactly one attempt")
		})
	}
}

func TestOpenAILLMTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	llm, err := NewOpenAILLMFromConfig(&LLMSettings{APIKey: "test-key", BaseURL: url})
	require.NoError(t, err)

	_, err = llm.Complete(context.Background(), CompletionRequest{Model: "m", Prompt: Prompt{User: "hi"}})

	var ce *CompletionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrorTransport, ce.Kind)
}

func TestNewOpenAILLMAllowsMissingKey(t *testing.T) {
	_, err := NewOpenAILLMFromConfig(&LLMSettings{BaseURL: GroqBaseURL})
	assert.NoError(t, err)

	_, err = NewOpenAILLMFromConfig(nil)
	assert.Error(t, err)
}
