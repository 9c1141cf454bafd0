package anthropic_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aireview/ai-pr-reviewer/internal/adapter/llm/anthropic"
	llmhttp "github.com/aireview/ai-pr-reviewer/internal/adapter/llm/http"
)

func messagesHandler(t *testing.T, text string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req anthropic.MessagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-3-haiku-20240307", req.Model)
		assert.Equal(t, 4000, req.MaxTokens)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		resp := anthropic.MessagesResponse{
			ID:    "msg_01",
			Type:  "message",
			Role:  "assistant",
			Model: req.Model,
			Content: []anthropic.ContentBlock{
				{Type: "text", Text: text},
			},
			StopReason: "end_turn",
			Usage:      anthropic.Usage{InputTokens: 100, OutputTokens: 50},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}
}

func newTestClient(serverURL string) *anthropic.HTTPClient {
	client := anthropic.NewHTTPClient("test-key")
	client.SetBaseURL(serverURL)
	client.SetRetryConfig(llmhttp.RetryConfig{
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	})
	return client
}

func TestCallReturnsResponseText(t *testing.T) {
	server := httptest.NewServer(messagesHandler(t, "review text"))
	defer server.Close()

	resp, err := newTestClient(server.URL).Call(context.Background(), "prompt", anthropic.CallOptions{
		Model:     "claude-3-haiku-20240307",
		MaxTokens: 4000,
	})
	require.NoError(t, err)

	assert.Equal(t, "review text", resp.Text)
	assert.Equal(t, 100, resp.TokensIn)
	assert.Equal(t, 50, resp.TokensOut)
	assert.Equal(t, "claude-3-haiku-20240307", resp.Model)
}

func TestCallRetriesRateLimitThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	handler := messagesHandler(t, "ok")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
			return
		}
		handler(w, r)
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).Call(context.Background(), "prompt", anthropic.CallOptions{
		Model:     "claude-3-haiku-20240307",
		MaxTokens: 4000,
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCallAuthenticationErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Call(context.Background(), "prompt", anthropic.CallOptions{
		Model:     "claude-3-haiku-20240307",
		MaxTokens: 4000,
	})
	require.Error(t, err)

	var apiErr *llmhttp.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, llmhttp.ErrTypeAuthentication, apiErr.Type)
	assert.Equal(t, "invalid x-api-key", apiErr.Message)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCallOverloadedIsRetryable(t *testing.T) {
	var calls atomic.Int32
	handler := messagesHandler(t, "ok")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(529)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"overloaded"}}`))
			return
		}
		handler(w, r)
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).Call(context.Background(), "prompt", anthropic.CallOptions{
		Model:     "claude-3-haiku-20240307",
		MaxTokens: 4000,
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
}
