package completion

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spacesedan/commentlens/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	replies []reply
}

type reply struct {
	text string
	err  error
}

func (f *fakeLLM) Complete(_ context.Context, system, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, system+"|"+user)
	i := f.calls
	f.calls++
	if i >= len(f.replies) {
		return "", errors.New("unexpected call")
	}
	return f.replies[i].text, f.replies[i].err
}

func newTestClient(llm Completer) *Client {
	return NewClient(llm, Options{
		RetryDelay: time.Millisecond,
		MaxRetries: DEFAULT_MAX_RETRIES,
		IsQuota:    MarkerQuotaDetector(DefaultQuotaMarkers...),
	})
}

func TestCompleteUnavailableWithoutLLM(t *testing.T) {
	c := newTestClient(nil)

	assert.False(t, c.Available())
	assert.Equal(t, models.SummaryNotConfigured(), c.Complete(context.Background(), "s", "u"))
}

func TestCompleteSuccess(t *testing.T) {
	llm := &fakeLLM{replies: []reply{{text: "fine summary"}}}

	got := newTestClient(llm).Complete(context.Background(), "sys", "usr")

	assert.Equal(t, models.SummaryText("fine summary"), got)
	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, []string{"sys|usr"}, llm.prompts)
}

func TestCompleteQuotaIsNotRetried(t *testing.T) {
	llm := &fakeLLM{replies: []reply{
		{err: errors.New("error, status code: 429, message: You exceeded your current quota")},
		{text: "should not be reached"},
	}}

	got := newTestClient(llm).Complete(context.Background(), "s", "u")

	assert.True(t, got.IsQuotaExceeded())
	assert.Equal(t, 1, llm.calls)
}

func TestCompleteRetriesOnceWithIdenticalRequest(t *testing.T) {
	llm := &fakeLLM{replies: []reply{
		{err: errors.New("connection reset by peer")},
		{text: "second time lucky"},
	}}

	got := newTestClient(llm).Complete(context.Background(), "s", "u")

	assert.Equal(t, models.SummaryText("second time lucky"), got)
	require.Equal(t, 2, llm.calls)
	assert.Equal(t, llm.prompts[0], llm.prompts[1])
}

func TestCompleteFailsAfterRetry(t *testing.T) {
	llm := &fakeLLM{replies: []reply{
		{err: errors.New("bad gateway")},
		{err: errors.New("bad gateway")},
		{text: "never"},
	}}

	got := newTestClient(llm).Complete(context.Background(), "s", "u")

	assert.Equal(t, models.SummaryFailed, got.Status)
	assert.Equal(t, 2, llm.calls)
}

func TestCompleteQuotaOnRetry(t *testing.T) {
	llm := &fakeLLM{replies: []reply{
		{err: errors.New("timeout")},
		{err: errors.New("insufficient_quota")},
	}}

	got := newTestClient(llm).Complete(context.Background(), "s", "u")

	assert.True(t, got.IsQuotaExceeded())
	assert.Equal(t, 2, llm.calls)
}

func TestCompleteUppercaseMarkerIsRetried(t *testing.T) {
	llm := &fakeLLM{replies: []reply{
		{err: errors.New("INSUFFICIENT_QUOTA")},
		{text: "recovered"},
	}}

	got := newTestClient(llm).Complete(context.Background(), "s", "u")

	assert.Equal(t, models.SummaryText("recovered"), got)
	assert.Equal(t, 2, llm.calls)
}

func TestNewClientDefaultsToOneRetry(t *testing.T) {
	llm := &fakeLLM{replies: []reply{
		{err: errors.New("connection refused")},
		{err: errors.New("connection refused")},
		{text: "never"},
	}}
	c := NewClient(llm, Options{RetryDelay: time.Millisecond})

	got := c.Complete(context.Background(), "s", "u")

	assert.Equal(t, uint64(DEFAULT_MAX_RETRIES), c.maxRetries)
	assert.Equal(t, models.SummaryFailed, got.Status)
	assert.Equal(t, 2, llm.calls)
}

func TestCompleteCancelledDuringRetryWait(t *testing.T) {
	llm := &fakeLLM{replies: []reply{{err: errors.New("timeout")}, {text: "late"}}}
	c := NewClient(llm, Options{RetryDelay: time.Hour, MaxRetries: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	got := c.Complete(ctx, "s", "u")

	assert.Equal(t, models.SummaryFailed, got.Status)
	assert.Equal(t, 1, llm.calls)
	assert.Less(t, time.Since(start), time.Minute)
}

func TestMarkerQuotaDetector(t *testing.T) {
	detect := MarkerQuotaDetector("insufficient_quota", " ", "billing_hard_limit")

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"marker", errors.New("code: insufficient_quota"), true},
		{"case sensitive", errors.New("BILLING_HARD_LIMIT reached"), false},
		{"padded marker", errors.New("billing_hard_limit reached"), true},
		{"wrapped", errors.Join(errors.New("outer"), errors.New("insufficient_quota")), true},
		{"other", errors.New("rate limited"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detect(tt.err))
		})
	}
}

func TestAnyQuota(t *testing.T) {
	typed := func(err error) bool { return err != nil && err.Error() == "typed" }
	detect := AnyQuota(nil, typed, MarkerQuotaDetector("quota"))

	assert.True(t, detect(errors.New("typed")))
	assert.True(t, detect(errors.New("no quota left")))
	assert.False(t, detect(errors.New("boom")))
}
