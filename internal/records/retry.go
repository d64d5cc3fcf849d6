package records

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sajidalishaik45/coauthor-network/internal/logger"
	"github.com/sajidalishaik45/coauthor-network/internal/metrics"
)

// RetryOptions configures RetrySource.
type RetryOptions struct {
	MaxAttempts int
	// BaseDelay grows linearly with the attempt number, plus up to
	// MaxJitter of random jitter.
	BaseDelay time.Duration
	MaxJitter time.Duration
}

// RetrySource retries a failing source with backoff. It exists for sources
// that may not be reachable yet when the service starts, such as a database
// container still booting.
type RetrySource struct {
	source Source
	opts   RetryOptions
	sleep  func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps source. MaxAttempts below 1 means a single attempt.
func WithRetry(source Source, opts RetryOptions) *RetrySource {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.MaxJitter <= 0 {
		opts.MaxJitter = 200 * time.Millisecond
	}
	return &RetrySource{source: source, opts: opts, sleep: sleepContext}
}

// Records calls the wrapped source until it succeeds, attempts run out or
// ctx is done. Context errors are never retried.
func (r *RetrySource) Records(ctx context.Context) ([]Record, error) {
	log := logger.WithComponent("records")

	var lastErr error
	for attempt := 1; attempt <= r.opts.MaxAttempts; attempt++ {
		recs, err := r.source.Records(ctx)
		if err == nil {
			metrics.SourceAttempts.WithLabelValues("success").Inc()
			if attempt > 1 {
				log.Info("Publication source recovered", "attempt", attempt)
			}
			return recs, nil
		}
		lastErr = err

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			metrics.SourceAttempts.WithLabelValues("error").Inc()
			return nil, err
		}
		if attempt == r.opts.MaxAttempts {
			metrics.SourceAttempts.WithLabelValues("error").Inc()
			break
		}
		metrics.SourceAttempts.WithLabelValues("retry").Inc()

		delay := r.opts.BaseDelay*time.Duration(attempt) + time.Duration(rand.Int63n(int64(r.opts.MaxJitter)))
		log.Warn("Publication source unavailable, backing off",
			"attempt", attempt,
			"max_attempts", r.opts.MaxAttempts,
			"wait", delay,
			"error", err)
		metrics.SourceRetryWaits.Observe(delay.Seconds())
		if err := r.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", r.opts.MaxAttempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
