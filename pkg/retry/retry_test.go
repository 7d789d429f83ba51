package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDoSucceedsAfterRetries(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), Policy{Name: "test", MaxAttempts: 3, Backoff: time.Millisecond}, discardLogger(),
		func(ctx context.Context) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("boom")
			}
			return "ok", nil
		})
	require.NoError(t, err)
	require.Equal(t, "ok", got)
	require.Equal(t, 3, calls)
}

func TestDoReturnsLastErrorWhenExhausted(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Policy{MaxAttempts: 3, Backoff: time.Millisecond}, discardLogger(),
		func(ctx context.Context) (int, error) {
			calls++
			return 0, errors.New("attempt failed")
		})
	require.EqualError(t, err, "attempt failed")
	require.Equal(t, 3, calls)
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	fatal := errors.New("bad request")
	calls := 0
	policy := Policy{
		MaxAttempts: 3,
		Backoff:     time.Millisecond,
		Retryable:   func(err error) bool { return !errors.Is(err, fatal) },
	}
	_, err := Do(context.Background(), policy, discardLogger(), func(ctx context.Context) (int, error) {
		calls++
		return 0, fatal
	})
	require.ErrorIs(t, err, fatal)
	require.Equal(t, 1, calls)
}

func TestDoSingleAttemptWhenUnset(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Policy{}, nil, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("nope")
	})
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestDoHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Do(ctx, Policy{MaxAttempts: 5, Backoff: time.Hour}, discardLogger(), func(ctx context.Context) (int, error) {
		calls++
		cancel()
		return 0, errors.New("transient")
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
