// SPDX-License-Identifier: MPL-2.0

package retry

import (
	"context"
	"time"
)

// WithTimeout runs op and returns its result, unless d elapses first, in
// which case timeoutErr is returned. The context passed to op carries the
// deadline so cooperative operations can stop early; op always runs in its
// own goroutine and a late result is discarded.
func WithTimeout[T any](ctx context.Context, d time.Duration, timeoutErr error, op func(ctx context.Context) (T, error)) (T, error) {
	type outcome struct {
		value T
		err   error
	}

	opCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	// Buffered so the goroutine never leaks when the timer wins the race.
	resultCh := make(chan outcome, 1)
	go func() {
		value, err := op(opCtx)
		resultCh <- outcome{value: value, err: err}
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	var zero T
	select {
	case res := <-resultCh:
		return res.value, res.err
	case <-timer.C:
		return zero, timeoutErr
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
