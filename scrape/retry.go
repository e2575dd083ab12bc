package scrape

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/roster"
)

// Retry defaults: three retries after the first attempt, waiting 2s, 4s, 8s.
const (
	DefaultMaxRetries     = 3
	DefaultRetryBaseDelay = 2 * time.Second
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// RetryPolicy decides how failed fetches are retried.
type RetryPolicy struct {
	// Delays holds the wait before each retry. Its length is the number of
	// retries after the first attempt.
	Delays []time.Duration

	// Retryable reports whether an error is worth another attempt.
	// Defaults to IsTransient.
	Retryable func(error) bool

	// Wait blocks for d or until ctx is done. Defaults to a timer.
	Wait func(ctx context.Context, d time.Duration) error
}

// NewRetryPolicy returns a policy retrying transient errors maxRetries times
// with exponential backoff starting at baseDelay.
func NewRetryPolicy(maxRetries int, baseDelay time.Duration) RetryPolicy {
	delays := make([]time.Duration, max(maxRetries, 0))
	for i := range delays {
		delays[i] = baseDelay << i
	}
	return RetryPolicy{Delays: delays, Retryable: IsTransient, Wait: sleep}
}

// DefaultRetryPolicy returns the policy with DefaultMaxRetries and
// DefaultRetryBaseDelay.
func DefaultRetryPolicy() RetryPolicy {
	return NewRetryPolicy(DefaultMaxRetries, DefaultRetryBaseDelay)
}

// IsTransient reports whether err is a failure that may succeed on retry:
// an HTTP 503 or a timeout. Other HTTP statuses and parse errors are final.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var fe *roster.FetchError
	if errors.As(err, &fe) && fe.StatusCode == http.StatusServiceUnavailable {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// FetchWithRetry calls fetch until it succeeds, fails with an error the
// policy does not retry, or runs out of retries. Once ctx is done no further
// attempt is made and the context error is returned. Retries are logged at
// debug level when logger is not nil.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, policy RetryPolicy, logger *slog.Logger) (string, error) {
	retryable := policy.Retryable
	if retryable == nil {
		retryable = IsTransient
	}
	wait := policy.Wait
	if wait == nil {
		wait = sleep
	}

	for attempt := 0; ; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if attempt >= len(policy.Delays) || !retryable(err) {
			return "", err
		}

		delay := policy.Delays[attempt]
		if logger != nil {
			logger.Debug("retrying fetch", "url", url, "attempt", attempt+2, "delay", delay, "err", err)
		}
		if err := wait(ctx, delay); err != nil {
			return "", err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
