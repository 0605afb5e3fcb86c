package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// RateLimitError reports a 403/429 response. It is retryable when the
// server asked for a wait no longer than [MaxRateLimitWait].
type RateLimitError struct {
	StatusCode int
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (status %d), retry after %s", e.StatusCode, e.RetryAfter)
	}
	return fmt.Sprintf("rate limited (status %d)", e.StatusCode)
}

// MaxRateLimitWait caps how long [Retry] sleeps for a rate-limited request.
const MaxRateLimitWait = time.Minute

// Retry executes fn up to attempts times with exponential backoff.
// Errors wrapped in [RetryableError], and [RateLimitError]s asking for a
// wait up to [MaxRateLimitWait], are retried; anything else is returned
// immediately. Returns the last error if all attempts fail, or ctx.Err()
// if cancelled.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		wait, ok := retryDelay(err, delay)
		if !ok {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				delay *= 2
			}
		}
	}
	return lastErr
}

// RetryWithBackoff is [Retry] with 3 attempts and a 1 second initial delay.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

func retryDelay(err error, backoff time.Duration) (time.Duration, bool) {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		if rl.RetryAfter <= 0 || rl.RetryAfter > MaxRateLimitWait {
			return 0, false
		}
		return rl.RetryAfter, true
	}
	if errors.As(err, new(*RetryableError)) {
		return backoff, true
	}
	return 0, false
}

// ParseRetryAfter reads the wait requested by a rate-limited response from
// Retry-After (seconds) or X-RateLimit-Reset (unix time). It returns zero
// when neither header is usable.
func ParseRetryAfter(h http.Header, now time.Time) time.Duration {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	if h.Get("X-RateLimit-Remaining") == "0" {
		if reset, err := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64); err == nil {
			if d := time.Unix(reset, 0).Sub(now); d > 0 {
				return d
			}
		}
	}
	return 0
}
