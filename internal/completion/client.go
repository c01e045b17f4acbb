package completion

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spacesedan/commentlens/internal/metrics"
	"github.com/spacesedan/commentlens/internal/models"
)

const (
	DEFAULT_RETRY_DELAY = 60 * time.Second
	DEFAULT_MAX_RETRIES = 1
)

var DefaultQuotaMarkers = []string{"insufficient_quota", "exceeded your current quota"}

// Completer is the chat-completion service the summarizers talk to.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// QuotaDetector reports whether an error from the completion service means
// the account has no quota left.
type QuotaDetector func(error) bool

// MarkerQuotaDetector matches errors whose text contains any of the markers.
// Matching is case-sensitive.
func MarkerQuotaDetector(markers ...string) QuotaDetector {
	trimmed := make([]string, 0, len(markers))
	for _, m := range markers {
		if m = strings.TrimSpace(m); m != "" {
			trimmed = append(trimmed, m)
		}
	}
	return func(err error) bool {
		if err == nil {
			return false
		}
		msg := err.Error()
		for _, m := range trimmed {
			if strings.Contains(msg, m) {
				return true
			}
		}
		return false
	}
}

// AnyQuota combines detectors; nil detectors are skipped.
func AnyQuota(detectors ...QuotaDetector) QuotaDetector {
	return func(err error) bool {
		for _, d := range detectors {
			if d != nil && d(err) {
				return true
			}
		}
		return false
	}
}

// Options zero values fall back to a 60s delay, one retry and the default markers.
type Options struct {
	RetryDelay time.Duration
	MaxRetries uint64
	IsQuota    QuotaDetector
}

// Client wraps a Completer with quota detection and a single fixed-delay retry.
// A nil Completer means the service is not configured.
type Client struct {
	llm        Completer
	retryDelay time.Duration
	maxRetries uint64
	isQuota    QuotaDetector
}

func NewClient(llm Completer, opts Options) *Client {
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DEFAULT_RETRY_DELAY
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = DEFAULT_MAX_RETRIES
	}
	if opts.IsQuota == nil {
		opts.IsQuota = MarkerQuotaDetector(DefaultQuotaMarkers...)
	}
	return &Client{
		llm:        llm,
		retryDelay: opts.RetryDelay,
		maxRetries: opts.MaxRetries,
		isQuota:    opts.IsQuota,
	}
}

func (c *Client) Available() bool {
	return c != nil && c.llm != nil
}

// Complete never returns an error; every outcome is carried by the result status.
func (c *Client) Complete(ctx context.Context, system, user string) models.SummaryResult {
	return c.complete(ctx, "default", system, user)
}

// CompleteStage is Complete with the pipeline stage attached to logs and metrics.
func (c *Client) CompleteStage(ctx context.Context, stage, system, user string) models.SummaryResult {
	return c.complete(ctx, stage, system, user)
}

func (c *Client) complete(ctx context.Context, stage, system, user string) models.SummaryResult {
	if !c.Available() {
		metrics.CompletionCalls.WithLabelValues(stage, "unavailable").Inc()
		return models.SummaryNotConfigured()
	}

	start := time.Now()
	attempts := 0
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryDelay), c.maxRetries),
		ctx,
	)

	text, err := backoff.RetryNotifyWithData(func() (string, error) {
		attempts++
		out, err := c.llm.Complete(ctx, system, user)
		if err != nil {
			if c.isQuota(err) {
				return "", backoff.Permanent(&quotaError{err: err})
			}
			return "", err
		}
		return out, nil
	}, policy, func(err error, wait time.Duration) {
		metrics.CompletionRetries.WithLabelValues(stage).Inc()
		slog.Warn("[CompletionClient] Request failed, retrying",
			slog.String("stage", stage),
			slog.Int("attempt", attempts),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()))
	})

	var qe *quotaError
	switch {
	case err == nil:
		metrics.CompletionCalls.WithLabelValues(stage, "ok").Inc()
		slog.Debug("[CompletionClient] Completion succeeded",
			slog.String("stage", stage),
			slog.Int("attempts", attempts),
			slog.Duration("elapsed", time.Since(start)))
		return models.SummaryText(text)
	case errors.As(err, &qe):
		metrics.CompletionCalls.WithLabelValues(stage, "quota_exceeded").Inc()
		metrics.QuotaHits.WithLabelValues("completion").Inc()
		slog.Error("[CompletionClient] Quota exceeded",
			slog.String("stage", stage),
			slog.String("error", qe.err.Error()))
		return models.SummaryQuota()
	default:
		metrics.CompletionCalls.WithLabelValues(stage, "failed").Inc()
		slog.Error("[CompletionClient] Request failed after retries",
			slog.String("stage", stage),
			slog.Int("attempts", attempts),
			slog.String("error", err.Error()))
		return models.SummaryFailure()
	}
}

type quotaError struct {
	err error
}

func (e *quotaError) Error() string { return e.err.Error() }

func (e *quotaError) Unwrap() error { return e.err }
