package http_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	llmhttp "github.com/aireview/ai-pr-reviewer/internal/adapter/llm/http"
)

func fastRetryConfig(maxRetries int) llmhttp.RetryConfig {
	return llmhttp.RetryConfig{
		MaxRetries:     maxRetries,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestRetryWithBackoffSucceedsAfterRetryableErrors(t *testing.T) {
	attempts := 0
	err := llmhttp.RetryWithBackoff(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return &llmhttp.Error{Type: llmhttp.ErrTypeRateLimit, Retryable: true, Provider: "test"}
		}
		return nil
	}, fastRetryConfig(5))

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithBackoffStopsOnNonRetryable(t *testing.T) {
	attempts := 0
	authErr := &llmhttp.Error{Type: llmhttp.ErrTypeAuthentication, Retryable: false, Provider: "test"}

	err := llmhttp.RetryWithBackoff(context.Background(), func(ctx context.Context) error {
		attempts++
		return authErr
	}, fastRetryConfig(5))

	assert.Equal(t, 1, attempts)
	assert.ErrorIs(t, err, authErr)
}

func TestRetryWithBackoffExhaustsRetries(t *testing.T) {
	attempts := 0
	err := llmhttp.RetryWithBackoff(context.Background(), func(ctx context.Context) error {
		attempts++
		return &llmhttp.Error{Type: llmhttp.ErrTypeServiceUnavailable, Retryable: true, Provider: "test"}
	}, fastRetryConfig(2))

	require.Error(t, err)
	assert.Equal(t, 3, attempts) // initial attempt + 2 retries
}

func TestRetryWithBackoffHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := llmhttp.RetryWithBackoff(ctx, func(ctx context.Context) error {
		t.Fatal("operation should not run with cancelled context")
		return nil
	}, fastRetryConfig(1))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestShouldRetry(t *testing.T) {
	assert.False(t, llmhttp.ShouldRetry(nil))
	assert.False(t, llmhttp.ShouldRetry(errors.New("plain error")))
	assert.True(t, llmhttp.ShouldRetry(&llmhttp.Error{Retryable: true}))
	assert.False(t, llmhttp.ShouldRetry(&llmhttp.Error{Retryable: false}))
}

func TestExponentialBackoffCapsAtMax(t *testing.T) {
	cfg := llmhttp.RetryConfig{
		InitialBackoff: time.Second,
		MaxBackoff:     4 * time.Second,
		Multiplier:     2.0,
	}
	for attempt := 0; attempt < 10; attempt++ {
		backoff := llmhttp.ExponentialBackoff(attempt, cfg)
		assert.LessOrEqual(t, backoff, cfg.MaxBackoff)
		assert.GreaterOrEqual(t, backoff, time.Duration(0))
	}
}

func TestRedactURLSecrets(t *testing.T) {
	input := `request to https://api.example.com/v1?key=sk-secret&model=demo failed`
	got := llmhttp.RedactURLSecrets(input)
	assert.NotContains(t, got, "sk-secret")
	assert.Contains(t, got, "key=[REDACTED]")
	assert.Contains(t, got, "model=demo")

	assert.Equal(t, "", llmhttp.RedactURLSecrets(""))
}
