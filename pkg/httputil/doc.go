// Package httputil provides retry helpers shared by the GitHub clients.
//
// Wrap a transient failure (timeouts, 5xx responses) in [RetryableError]
// and run the request inside [Retry] or [RetryWithBackoff]. A rate-limit
// response can carry a server-provided wait via [RateLimitError], which
// [Retry] honours instead of its own backoff when the wait is short enough.
package httputil
