// SPDX-License-Identifier: MPL-2.0

package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTookTooLong = errors.New("operation took too long")

func TestWithTimeoutResolvesInTime(t *testing.T) {
	t.Parallel()
	got, err := WithTimeout(context.Background(), time.Second, errTookTooLong,
		func(ctx context.Context) (string, error) {
			return "done", nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "done" {
		t.Fatalf("expected %q, got %q", "done", got)
	}
}

func TestWithTimeoutReturnsSuppliedError(t *testing.T) {
	t.Parallel()
	started := make(chan struct{})
	got, err := WithTimeout(context.Background(), 20*time.Millisecond, errTookTooLong,
		func(ctx context.Context) (string, error) {
			close(started)
			<-ctx.Done()
			return "late", ctx.Err()
		})
	<-started
	if !errors.Is(err, errTookTooLong) {
		t.Fatalf("expected errTookTooLong, got: %v", err)
	}
	if got != "" {
		t.Fatalf("expected zero value on timeout, got %q", got)
	}
}

func TestWithTimeoutPropagatesOperationError(t *testing.T) {
	t.Parallel()
	opErr := errors.New("boom")
	_, err := WithTimeout(context.Background(), time.Second, errTookTooLong,
		func(ctx context.Context) (int, error) {
			return 0, opErr
		})
	if !errors.Is(err, opErr) {
		t.Fatalf("expected operation error, got: %v", err)
	}
}

func TestWithTimeoutParentCancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := WithTimeout(ctx, time.Second, errTookTooLong,
		func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
}
