// SPDX-License-Identifier: MPL-2.0

// Package retry provides opt-in retry and timeout helpers for operations
// that may fail transiently. Nothing in stencil wires these in implicitly;
// callers decide what is worth retrying.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Options controls the retry schedule for Do.
type Options struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is the delay before the first retry; subsequent delays
	// double each time.
	BaseDelay time.Duration
	// MaxDelay caps the per-retry delay. Zero means no cap.
	MaxDelay time.Duration
	// OnRetry, if non-nil, is invoked before each re-attempt with the
	// 1-based number of the upcoming attempt and the error that caused it.
	OnRetry func(attempt int, err error)

	// sleep is a test seam; nil means time.Sleep.
	sleep func(d time.Duration)
}

// ErrInvalidOptions is returned when Options cannot describe a schedule.
var ErrInvalidOptions = errors.New("invalid retry options")

// Delay returns the backoff delay preceding the given 1-based retry number:
// min(BaseDelay*2^(retry-1), MaxDelay).
func (o Options) Delay(retry int) time.Duration {
	d := o.BaseDelay << (retry - 1)
	if o.MaxDelay > 0 && d > o.MaxDelay {
		return o.MaxDelay
	}
	return d
}

// Do invokes op until it succeeds, MaxAttempts is exhausted, or ctx is
// cancelled. It checks ctx.Err() between attempts so cancellation is
// honored without waiting out a backoff. On exhaustion the last error from
// op is returned.
func Do(ctx context.Context, op func(ctx context.Context) error, opts Options) error {
	if opts.MaxAttempts < 1 {
		return fmt.Errorf("%w: MaxAttempts must be at least 1, got %d", ErrInvalidOptions, opts.MaxAttempts)
	}
	sleep := opts.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var lastErr error
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("retry aborted: %w", err)
			}
			if opts.OnRetry != nil {
				opts.OnRetry(attempt, lastErr)
			}
			sleep(opts.Delay(attempt - 1))
		}

		if err := op(ctx); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
