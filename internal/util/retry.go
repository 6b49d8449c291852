// Package util provides shared utility functions for scholardesk.
package util

import (
	"context"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// StoreRetryOptions returns retry options for preference-store operations.
// Uses linear backoff (100ms, 200ms, 300ms) suitable for transient lock errors
// when two CLI invocations hit the same store file (WAL checkpoint contention).
func StoreRetryOptions(ctx context.Context) []retry.Option {
	return []retry.Option{
		retry.Attempts(3),
		retry.Delay(100 * time.Millisecond),
		retry.MaxDelay(300 * time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(IsStoreLocked),
		retry.Context(ctx),
	}
}

// NetworkRetryOptions returns retry options for portal fetches.
func NetworkRetryOptions(ctx context.Context) []retry.Option {
	return []retry.Option{
		retry.Attempts(3),
		retry.Delay(200 * time.Millisecond),
		retry.MaxDelay(2 * time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
	}
}

// Retry executes fn with retry logic.
// Returns the last error if all attempts fail.
func Retry(ctx context.Context, fn func() error, opts ...retry.Option) error {
	if len(opts) == 0 {
		opts = StoreRetryOptions(ctx)
	}
	return retry.Do(fn, opts...)
}

// RetryWithResult executes fn with retry logic and returns the result.
func RetryWithResult[T any](ctx context.Context, fn func() (T, error), opts ...retry.Option) (T, error) {
	if len(opts) == 0 {
		opts = StoreRetryOptions(ctx)
	}
	return retry.DoWithData(fn, opts...)
}

// IsStoreLocked returns true if the error indicates a database lock.
func IsStoreLocked(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "database is locked")
}
