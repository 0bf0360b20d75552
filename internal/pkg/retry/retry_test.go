package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fastConfig(maxAttempts int) Config {
	return Config{
		MaxAttempts:     maxAttempts,
		InitialInterval: time.Millisecond,
		MaxInterval:     10 * time.Millisecond,
		Multiplier:      2.0,
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), DefaultConfig(), func(ctx context.Context) error {
		attempts++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDoRetriesTransientErrors(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(5), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	permanent := errors.New("document failed validation")
	attempts := 0

	err := Do(context.Background(), fastConfig(5), func(ctx context.Context) error {
		attempts++
		return permanent
	})

	assert.Equal(t, permanent, err)
	assert.Equal(t, 1, attempts)
}

func TestDoExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(3), func(ctx context.Context) error {
		attempts++
		return errors.New("timeout waiting for server")
	})

	assert.ErrorIs(t, err, ErrMaxRetriesExceeded)
	assert.Equal(t, 3, attempts)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	err := Do(ctx, fastConfig(10), func(ctx context.Context) error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return errors.New("connection reset")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, attempts)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(errors.New("dial tcp: connection refused")))
	assert.True(t, IsRetryable(errors.New("server selection error: context deadline exceeded")))
	assert.False(t, IsRetryable(errors.New("invalid country code")))
	assert.False(t, IsRetryable(nil))
}

func TestDoWithValue(t *testing.T) {
	attempts := 0
	value, err := DoWithValue(context.Background(), fastConfig(5), func(ctx context.Context) (int, error) {
		attempts++
		if attempts < 2 {
			return 0, errors.New("timeout")
		}
		return 42, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 42, value)
}
