package llm

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathadventures/internal/logging"
	"github.com/abhisek/mathadventures/internal/store"
)

var fastRetry = RetryConfig{
	MaxAttempts: 3,
	InitialWait: time.Millisecond,
	MaxWait:     5 * time.Millisecond,
	Multiplier:  2,
}

func TestRetry_SucceedsAfterTransientErrors(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}},
		MockResponse{Content: json.RawMessage(`{"ok":true}`)},
	)

	resp, err := WithRetry(mock, fastRetry).Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Content))
	assert.Equal(t, 3, mock.CallCount())
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
		MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad again")}},
		MockResponse{Content: json.RawMessage(`{}`)},
	)

	_, err := WithRetry(mock, fastRetry).Generate(context.Background(), Request{})
	var inv *ErrInvalidResponse
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetry_ContextCanceledNotRetried(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: context.Canceled})

	_, err := WithRetry(mock, fastRetry).Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	mock := NewMockProvider()

	_, err := WithRetry(mock, fastRetry).Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavail))
	assert.Equal(t, 3, mock.CallCount())
}

func TestRetry_BackoffHonorsRetryAfter(t *testing.T) {
	r := &RetryProvider{config: fastRetry}
	assert.Equal(t, 42*time.Millisecond, r.backoff(0, &ErrRateLimit{RetryAfter: 42 * time.Millisecond}))

	wait := r.backoff(10, errors.New("x"))
	assert.LessOrEqual(t, wait, time.Duration(float64(fastRetry.MaxWait)*1.2)+time.Nanosecond)
}

func TestLogging_RecordsEvent(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "llm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"question_text":"q","answer":1}`),
		Usage:   Usage{InputTokens: 3, OutputTokens: 4, TotalTokens: 7},
	})
	p := WithLogging(mock, "mock", s.EventRepo(), logging.Discard())

	ctx := WithPurpose(context.Background(), "story")
	_, err = p.Generate(ctx, Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "reword"}},
		Schema:   storySchema,
	})
	require.NoError(t, err)

	var purpose, reqBody string
	var success bool
	var out int
	require.NoError(t, s.DB().QueryRow(
		"SELECT purpose, success, output_tokens, request_body FROM llm_request_events",
	).Scan(&purpose, &success, &out, &reqBody))
	assert.Equal(t, "story", purpose)
	assert.True(t, success)
	assert.Equal(t, 4, out)
	assert.Contains(t, reqBody, "[schema: test-story]")
	assert.Contains(t, reqBody, "[user]\nreword")
}

func TestLogging_NilRepo(t *testing.T) {
	p := WithLogging(NewMockProvider(), "mock", nil, nil)
	_, err := p.Generate(context.Background(), Request{})
	assert.Error(t, err)
	assert.Equal(t, "mock", p.ModelID())
}

func TestNewProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"
	p, err := NewProvider(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	cfg.Provider = "anthropic"
	_, err = NewProvider(context.Background(), cfg, nil, nil)
	assert.Error(t, err)

	cfg.Anthropic.APIKey = "k"
	p, err = NewProvider(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &RetryProvider{}, p)
}
