package llm

import "context"

// Client is the model invocation boundary: one call, no retries, no caching.
// Implementations classify "too many requests" responses as *RateLimitError;
// any other error is treated as non-retryable by the invoker.
type Client interface {
	Generate(ctx context.Context, model ModelConfig, parts []Part) (string, error)
}
