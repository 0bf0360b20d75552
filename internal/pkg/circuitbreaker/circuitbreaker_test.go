package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDownstream = errors.New("downstream failure")

func tripAfterTwo() Config {
	return Config{
		MaxRequests: 1,
		Timeout:     50 * time.Millisecond,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 2
		},
	}
}

func fail(cb *CircuitBreaker) error {
	_, err := cb.Execute(context.Background(), func() (interface{}, error) {
		return nil, errDownstream
	})
	return err
}

func succeed(cb *CircuitBreaker) error {
	_, err := cb.Execute(context.Background(), func() (interface{}, error) {
		return "ok", nil
	})
	return err
}

func TestClosedPassesThrough(t *testing.T) {
	cb := NewCircuitBreaker("test", tripAfterTwo())

	result, err := cb.Execute(context.Background(), func() (interface{}, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, result)
	assert.Equal(t, StateClosed, cb.State())
}

func TestTripsAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", tripAfterTwo())

	assert.ErrorIs(t, fail(cb), errDownstream)
	assert.Equal(t, StateClosed, cb.State())

	assert.ErrorIs(t, fail(cb), errDownstream)
	assert.Equal(t, StateOpen, cb.State())

	// Open circuit rejects without calling downstream.
	called := false
	_, err := cb.Execute(context.Background(), func() (interface{}, error) {
		called = true
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestRecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker("test", tripAfterTwo())

	fail(cb)
	fail(cb)
	require.Equal(t, StateOpen, cb.State())

	// After the timeout a probe is allowed; success closes the circuit.
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())
	assert.NoError(t, succeed(cb))
	assert.Equal(t, StateClosed, cb.State())
}

func TestHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker("test", tripAfterTwo())

	fail(cb)
	fail(cb)
	time.Sleep(60 * time.Millisecond)

	assert.ErrorIs(t, fail(cb), errDownstream)
	assert.Equal(t, StateOpen, cb.State())
}

func TestStateChangeCallback(t *testing.T) {
	var transitions []State
	cfg := tripAfterTwo()
	cfg.OnStateChange = func(name string, from State, to State) {
		transitions = append(transitions, to)
	}

	cb := NewCircuitBreaker("test", cfg)
	fail(cb)
	fail(cb)

	require.NotEmpty(t, transitions)
	assert.Equal(t, StateOpen, transitions[len(transitions)-1])
}
