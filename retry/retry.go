// Package retry re-runs a failing operation a bounded number of times
// with a linearly growing pause between attempts.
package retry

import (
	"context"
	"time"
)

// Defaults for Do.
const (
	DefaultMaxRetries = 3
	DefaultDelay      = time.Second
)

// Option configures Do.
type Option func(*options)

type options struct {
	maxRetries int
	delay      time.Duration
	onRetry    func(attempt int, err error)
	wait       func(ctx context.Context, d time.Duration) error
}

// MaxRetries sets the total number of attempts, including the first. Values below 1 are treated as 1.
func MaxRetries(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.maxRetries = n
	}
}

// Delay sets the base pause. The pause after attempt k is k*d.
func Delay(d time.Duration) Option {
	return func(o *options) {
		if d < 0 {
			d = 0
		}
		o.delay = d
	}
}

// OnRetry is called after each failed attempt that will be retried.
func OnRetry(fn func(attempt int, err error)) Option {
	return func(o *options) {
		o.onRetry = fn
	}
}

// Do runs op until it succeeds or the attempts are exhausted, and returns the
// last error unchanged. Every failure is retried regardless of its kind.
// A cancelled ctx stops the pause and returns ctx.Err().
func Do[T any](ctx context.Context, op func(ctx context.Context) (T, error), opts ...Option) (T, error) {
	o := options{
		maxRetries: DefaultMaxRetries,
		delay:      DefaultDelay,
		wait:       sleep,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var zero T
	var lastErr error
	for attempt := 1; attempt <= o.maxRetries; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if attempt == o.maxRetries {
			break
		}

		if o.onRetry != nil {
			o.onRetry(attempt, err)
		}
		if err := o.wait(ctx, o.delay*time.Duration(attempt)); err != nil {
			return zero, err
		}
	}
	return zero, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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
