package retry

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"
)

var (
	// ErrMaxRetriesExceeded is returned once every attempt has failed.
	ErrMaxRetriesExceeded = errors.New("maximum retries exceeded")
)

// Config holds the retry settings.
type Config struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	MaxElapsedTime  time.Duration
}

// DefaultConfig returns the default retry settings.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
		MaxElapsedTime:  2 * time.Minute,
	}
}

// RetryableFunc is a function that may be retried.
type RetryableFunc func(ctx context.Context) error

// Do runs the function, retrying transient failures with exponential backoff.
func Do(ctx context.Context, cfg Config, fn RetryableFunc) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	startTime := time.Now()
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if !IsRetryable(lastErr) {
			return lastErr
		}

		if attempt >= cfg.MaxAttempts {
			break
		}

		waitTime := calculateBackoff(cfg, attempt)

		if cfg.MaxElapsedTime > 0 {
			elapsed := time.Since(startTime)
			if elapsed+waitTime > cfg.MaxElapsedTime {
				break
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	if lastErr != nil {
		return errors.Join(ErrMaxRetriesExceeded, lastErr)
	}

	return ErrMaxRetriesExceeded
}

func calculateBackoff(cfg Config, attempt int) time.Duration {
	backoff := float64(cfg.InitialInterval) * math.Pow(cfg.Multiplier, float64(attempt-1))

	if backoff > float64(cfg.MaxInterval) {
		backoff = float64(cfg.MaxInterval)
	}

	return time.Duration(backoff)
}

// IsRetryable reports whether the error is worth retrying. Only transient
// network and server-selection failures qualify; validation and not-found
// errors must surface immediately.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	for _, transient := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"server selection error",
	} {
		if strings.Contains(msg, transient) {
			return true
		}
	}

	return false
}

// DoWithValue retries a function that returns a value.
func DoWithValue[T any](ctx context.Context, cfg Config, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	var lastErr error

	err := Do(ctx, cfg, func(ctx context.Context) error {
		var err error
		result, err = fn(ctx)
		lastErr = err
		return err
	})

	if err != nil {
		return result, lastErr
	}

	return result, nil
}
