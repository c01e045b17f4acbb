package clients

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy controls exponential retries of idempotent HTTP calls.
type RetryPolicy struct {
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxRetries     uint64
}

var DefaultRetryPolicy = RetryPolicy{
	InitialBackoff: INITIAL_BACKOFF,
	MaxBackoff:     MAX_BACKOFF,
	MaxRetries:     MAX_RETRIES,
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.InitialBackoff
	eb.MaxInterval = p.MaxBackoff
	return backoff.WithContext(backoff.WithMaxRetries(eb, p.MaxRetries), ctx)
}

type httpStatusError struct {
	StatusCode int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("status code %d", e.StatusCode)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// doWithRetry sends the request built by newReq until it gets a non-retryable
// response. 4xx responses other than 429 are returned to the caller untouched.
func doWithRetry(ctx context.Context, client *http.Client, policy RetryPolicy, component string, newReq func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	attempt := 0
	return backoff.RetryNotifyWithData(func() (*http.Response, error) {
		attempt++
		req, err := newReq(ctx)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", USER_AGENT)

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		if isRetryableStatus(resp.StatusCode) {
			resp.Body.Close()
			return nil, &httpStatusError{StatusCode: resp.StatusCode}
		}
		return resp, nil
	}, policy.backOff(ctx), func(err error, wait time.Duration) {
		slog.Warn(fmt.Sprintf("[%s] Request failed, will retry", component),
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()))
	})
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}
