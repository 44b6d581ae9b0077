package clients

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/sethvargo/go-retry"
)

// Retry runs task with capped Fibonacci backoff. Errors the task wants
// retried must be wrapped with retry.RetryableError.
func Retry(ctx context.Context, component string, task func(ctx context.Context) error) error {
	b := retry.NewFibonacci(INITIAL_BACKOFF)
	b = retry.WithCappedDuration(MAX_BACKOFF, b)
	b = retry.WithMaxRetries(MAX_RETRIES, b)

	attempt := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		err := task(ctx)
		if err != nil && attempt > 1 {
			slog.Warn("["+component+"] Retry attempt failed",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
		}
		return err
	})
	if err != nil {
		slog.Warn("["+component+"] Gave up after retries",
			slog.Int("attempts", attempt),
			slog.String("error", err.Error()))
	}
	return err
}

// ShouldRetry reports whether err looks transient.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout") ||
		strings.Contains(msg, "connection reset")
}
