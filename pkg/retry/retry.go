// Package retry runs an operation under a bounded, constant-backoff retry policy.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy describes how many times an operation may run and which failures earn another attempt.
type Policy struct {
	// Name labels log lines.
	Name string
	// MaxAttempts counts the first call; values below 1 mean a single attempt.
	MaxAttempts int
	// Backoff is the fixed wait between attempts.
	Backoff time.Duration
	// Retryable decides whether an error is worth another attempt. Nil retries every error.
	Retryable func(error) bool
}

// RetryAll accepts every error.
func RetryAll(error) bool { return true }

// Do calls fn until it succeeds, returns a non retryable error, runs out of attempts,
// or ctx is done. The error of the last attempt is returned on exhaustion.
func Do[T any](ctx context.Context, p Policy, logger *slog.Logger, fn func(ctx context.Context) (T, error)) (T, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = RetryAll
	}

	var policy backoff.BackOff = backoff.NewConstantBackOff(p.Backoff)
	policy = backoff.WithMaxRetries(policy, uint64(attempts-1))
	policy = backoff.WithContext(policy, ctx)

	attempt := 0
	operation := func() (T, error) {
		attempt++
		res, err := fn(ctx)
		if err == nil {
			if attempt > 1 && logger != nil {
				logger.Info("operation succeeded after retry", "operation", p.Name, "attempt", attempt)
			}
			return res, nil
		}
		if !retryable(err) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}
	notify := func(err error, wait time.Duration) {
		if logger == nil {
			return
		}
		logger.Warn("operation failed, retrying",
			"operation", p.Name,
			"attempt", attempt,
			"max_attempts", attempts,
			"backoff", wait,
			"error", err,
		)
	}
	return backoff.RetryNotifyWithData(operation, policy, notify)
}
