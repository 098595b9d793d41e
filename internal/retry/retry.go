// Package retry runs an operation again when it fails with a transient
// error kind (concurrent_update, lock_timeout), with exponential backoff and
// a hard cap on attempts. Any other error stops the loop immediately.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
)

type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration

	// OnRetry is called before sleeping for the next attempt.
	OnRetry func(err error, wait time.Duration)
}

// Default is the policy used by the aggregate manager and the HTTP layer.
func Default() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     200 * time.Millisecond,
	}
}

// Do calls fn until it succeeds, fails with a non-retryable error, the
// context is done, or MaxAttempts calls were made. The last error is returned
// unwrapped so callers keep matching kinds with errors.Is.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}

	eb := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		eb.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		eb.MaxInterval = p.MaxInterval
	}
	eb.MaxElapsedTime = 0

	var b backoff.BackOff = backoff.WithMaxRetries(eb, uint64(p.MaxAttempts-1))
	b = backoff.WithContext(b, ctx)

	var last error
	op := func() error {
		last = fn(ctx)
		if last == nil {
			return nil
		}
		if !httperr.IsRetryable(last) {
			return backoff.Permanent(last)
		}
		return last
	}

	var notify backoff.Notify
	if p.OnRetry != nil {
		notify = p.OnRetry
	}

	if err := backoff.RetryNotify(op, b, notify); err != nil {
		if last != nil {
			return last
		}
		return err
	}
	return nil
}
