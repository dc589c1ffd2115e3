package llm

import (
	"fmt"
	"time"
)

// RateLimitError marks a retryable "too many requests" signal from the
// upstream model service. The invoker absorbs it through its backoff loop;
// it never surfaces past Invoke.
type RateLimitError struct {
	Cause error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: %v", e.Cause)
}

func (e *RateLimitError) Unwrap() error { return e.Cause }

// TimeoutError reports that the cumulative wall-clock budget for an invoke,
// across all attempts, was exceeded.
type TimeoutError struct {
	Budget  time.Duration
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %.1fs (budget %.1fs)", e.Elapsed.Seconds(), e.Budget.Seconds())
}

// UpstreamError wraps a non-retryable model/service failure, or a rate-limit
// failure that survived every retry.
type UpstreamError struct {
	Attempts int
	Cause    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream failure after %d attempt(s): %v", e.Attempts, e.Cause)
}

func (e *UpstreamError) Unwrap() error { return e.Cause }
