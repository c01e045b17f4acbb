package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MAX_BATCH_TOKENS", "")
	t.Setenv("COMPLETION_RETRY_DELAY", "")
	t.Setenv("SENTIMENT_THRESHOLD", "")
	t.Setenv("QUOTA_ERROR_MARKERS", "")
	t.Setenv("SENTIMENT_BACKEND", "")

	cfg := Load()

	assert.Equal(t, DefaultMaxBatchTokens, cfg.MaxBatchTokens)
	assert.Equal(t, DefaultRetryDelay, cfg.CompletionRetryDelay)
	assert.Equal(t, uint64(1), cfg.CompletionMaxRetries)
	assert.InDelta(t, 0.90, cfg.SentimentThreshold, 1e-9)
	assert.Equal(t, []string{"insufficient_quota", "exceeded your current quota"}, cfg.QuotaErrorMarkers)
	assert.Equal(t, "vader", cfg.SentimentBackend)
	assert.Equal(t, DefaultMaxComments, cfg.MaxComments)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MAX_BATCH_TOKENS", "128")
	t.Setenv("COMPLETION_RETRY_DELAY", "5s")
	t.Setenv("SENTIMENT_THRESHOLD", "0.75")
	t.Setenv("QUOTA_ERROR_MARKERS", " quota , billing_hard_limit_reached ,")
	t.Setenv("SENTIMENT_BACKEND", "HUGOT")
	t.Setenv("VALKEY_TLS", "true")
	t.Setenv("COMPLETION_MAX_RETRIES", "2")

	cfg := Load()

	assert.Equal(t, 128, cfg.MaxBatchTokens)
	assert.Equal(t, 5*time.Second, cfg.CompletionRetryDelay)
	assert.InDelta(t, 0.75, cfg.SentimentThreshold, 1e-9)
	assert.Equal(t, []string{"quota", "billing_hard_limit_reached"}, cfg.QuotaErrorMarkers)
	assert.Equal(t, "hugot", cfg.SentimentBackend)
	assert.True(t, cfg.ValkeyTLS)
	assert.Equal(t, uint64(2), cfg.CompletionMaxRetries)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("MAX_BATCH_TOKENS", "lots")
	t.Setenv("COMPLETION_RETRY_DELAY", "a minute")
	t.Setenv("SENTIMENT_THRESHOLD", "high")
	t.Setenv("COMPLETION_MAX_RETRIES", "-1")

	cfg := Load()

	assert.Equal(t, DefaultMaxBatchTokens, cfg.MaxBatchTokens)
	assert.Equal(t, DefaultRetryDelay, cfg.CompletionRetryDelay)
	assert.InDelta(t, DefaultSentimentThreshold, cfg.SentimentThreshold, 1e-9)
	assert.Equal(t, uint64(1), cfg.CompletionMaxRetries)
}
