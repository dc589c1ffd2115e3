package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"profileforge/internal/logging"
)

const (
	DefaultMaxRetries = 5
	DefaultTimeout    = 120 * time.Second

	// Per-attempt deadline grows with the attempt number, capped by the
	// remaining cumulative budget.
	attemptDeadlineStep = 30 * time.Second

	defaultThrottleDelay = 1 * time.Second
)

// Options tune a single Invoke call.
type Options struct {
	MaxRetries int
	// Timeout is the cumulative wall-clock budget across all attempts,
	// measured from the start of this Invoke.
	Timeout time.Duration
	// Topic tags log lines with the owning section, when there is one.
	Topic string
}

// Invoker wraps the model call boundary with response caching, a shared
// throttle gate, and exponential-backoff retry on rate-limit signals.
type Invoker struct {
	client   Client
	cache    *Cache
	log      *logging.Logger
	runStart time.Time

	throttleMu    sync.Mutex
	throttleDelay time.Duration

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

type InvokerOption func(*Invoker)

// WithThrottleDelay overrides the shared inter-call spacing delay.
func WithThrottleDelay(d time.Duration) InvokerOption {
	return func(iv *Invoker) { iv.throttleDelay = d }
}

// WithSleepFunc replaces the backoff/throttle sleeper. Used in tests.
func WithSleepFunc(fn func(ctx context.Context, d time.Duration) error) InvokerOption {
	return func(iv *Invoker) { iv.sleep = fn }
}

// WithClock replaces the wall clock. Used in tests.
func WithClock(now func() time.Time) InvokerOption {
	return func(iv *Invoker) { iv.now = now }
}

func NewInvoker(client Client, cache *Cache, log *logging.Logger, opts ...InvokerOption) *Invoker {
	iv := &Invoker{
		client:        client,
		cache:         cache,
		log:           log,
		runStart:      time.Now(),
		throttleDelay: defaultThrottleDelay,
		sleep:         sleepContext,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(iv)
	}
	return iv
}

// Invoke performs one logical model call: cache check, throttle, then up to
// MaxRetries attempts within the cumulative Timeout budget. Rate-limit
// failures back off and retry; anything else fails immediately as
// *UpstreamError. A drained budget fails as *TimeoutError.
func (iv *Invoker) Invoke(ctx context.Context, model ModelConfig, parts []Part, opts Options) (string, error) {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	scope := "project"
	if opts.Topic != "" {
		scope = "section " + opts.Topic
	}

	key := Key(model, parts)
	if text, ok := iv.cache.Get(key); ok {
		iv.log.Debugw("using cached response", "elapsed", logging.Elapsed(iv.runStart), "scope", scope)
		return text, nil
	}

	// Shared gate smoothing request rate across all workers. Holding the
	// mutex through the sleep spaces non-cached calls process-wide.
	iv.throttleMu.Lock()
	throttleErr := iv.sleep(ctx, iv.throttleDelay)
	iv.throttleMu.Unlock()
	if throttleErr != nil {
		return "", &UpstreamError{Attempts: 0, Cause: throttleErr}
	}

	start := iv.now()
	iv.log.Debugw("starting model call",
		"elapsed", logging.Elapsed(iv.runStart), "scope", scope, "model", model.Name)

	attempts := 0
	for attempt := 0; attempt < opts.MaxRetries; attempt++ {
		elapsed := iv.now().Sub(start)
		if elapsed > opts.Timeout {
			return "", &TimeoutError{Budget: opts.Timeout, Elapsed: elapsed}
		}
		attemptDeadline := attemptDeadlineStep * time.Duration(attempt+1)
		if remaining := opts.Timeout - elapsed; attemptDeadline > remaining {
			attemptDeadline = remaining
		}

		attempts++
		iv.log.Debugw("model call attempt",
			"elapsed", logging.Elapsed(iv.runStart), "scope", scope,
			"attempt", attempts, "attempt_timeout", attemptDeadline.Seconds())

		attemptCtx, cancel := context.WithTimeout(ctx, attemptDeadline)
		text, err := iv.client.Generate(attemptCtx, model, parts)
		cancel()
		if err == nil {
			iv.cache.Put(key, text)
			return text, nil
		}

		elapsed = iv.now().Sub(start)
		if elapsed > opts.Timeout {
			iv.log.Warnw("model call timed out",
				"elapsed", logging.Elapsed(iv.runStart), "scope", scope, "error", err)
			return "", &TimeoutError{Budget: opts.Timeout, Elapsed: elapsed}
		}

		var rateLimit *RateLimitError
		if errors.As(err, &rateLimit) && attempt < opts.MaxRetries-1 {
			wait := backoffDelay(attempt)
			iv.log.Warnw("rate limit hit, backing off",
				"elapsed", logging.Elapsed(iv.runStart), "scope", scope,
				"wait", fmt.Sprintf("%.2fs", wait.Seconds()),
				"retry", fmt.Sprintf("%d/%d", attempt+1, opts.MaxRetries))
			if serr := iv.sleep(ctx, wait); serr != nil {
				return "", &UpstreamError{Attempts: attempts, Cause: serr}
			}
			continue
		}

		iv.log.Errorw("model call failed",
			"elapsed", logging.Elapsed(iv.runStart), "scope", scope, "error", err)
		return "", &UpstreamError{Attempts: attempts, Cause: err}
	}

	return "", &UpstreamError{Attempts: attempts, Cause: errors.New("retries exhausted")}
}

// backoffDelay is 2^attempt seconds plus up to one second of jitter.
func backoffDelay(attempt int) time.Duration {
	seconds := math.Pow(2, float64(attempt)) + rand.Float64()
	return time.Duration(seconds * float64(time.Second))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
