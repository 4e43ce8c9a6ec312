package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBreaker(threshold int, reset time.Duration) *CircuitBreaker {
	return NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: threshold,
		ResetTimeout:     reset,
	})
}

func failing(ctx context.Context) error { return errors.New("provider down") }

func TestCircuit_OpensAfterThreshold(t *testing.T) {
	cb := testBreaker(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.Error(t, cb.Execute(ctx, failing))
	}
	assert.Equal(t, CircuitOpen, cb.State())

	err := cb.Execute(ctx, failing)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuit_SuccessResetsCounter(t *testing.T) {
	cb := testBreaker(3, time.Minute)
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failing))
	require.Error(t, cb.Execute(ctx, failing))
	require.NoError(t, cb.Execute(ctx, func(ctx context.Context) error { return nil }))

	failures, state := cb.Counters()
	assert.Zero(t, failures)
	assert.Equal(t, CircuitClosed, state)
}

func TestCircuit_HalfOpenProbeRecovers(t *testing.T) {
	cb := testBreaker(1, time.Minute)
	ctx := context.Background()

	now := time.Now()
	cb.nowFunc = func() time.Time { return now }

	require.Error(t, cb.Execute(ctx, failing))
	assert.Equal(t, CircuitOpen, cb.State())

	// After the reset timeout a probe is allowed; success closes the circuit.
	now = now.Add(2 * time.Minute)
	require.NoError(t, cb.Execute(ctx, func(ctx context.Context) error { return nil }))
	assert.Equal(t, CircuitClosed, cb.State())
}

func TestCircuit_HalfOpenFailureReopens(t *testing.T) {
	cb := testBreaker(1, time.Minute)
	ctx := context.Background()

	now := time.Now()
	cb.nowFunc = func() time.Time { return now }

	require.Error(t, cb.Execute(ctx, failing))
	now = now.Add(2 * time.Minute)
	require.Error(t, cb.Execute(ctx, failing))

	_, state := cb.Counters()
	assert.Equal(t, CircuitOpen, state)
}

func TestCircuit_ShouldTripFilter(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		ResetTimeout:     time.Minute,
		ShouldTrip:       IsTransient,
	})
	ctx := context.Background()

	// Non-transient errors pass through without tripping the breaker.
	require.Error(t, cb.Execute(ctx, func(ctx context.Context) error {
		return Unavailable(errors.New("401"))
	}))
	assert.Equal(t, CircuitClosed, cb.State())

	require.Error(t, cb.Execute(ctx, func(ctx context.Context) error {
		return Transient(errors.New("503"), 503)
	}))
	assert.Equal(t, CircuitOpen, cb.State())
}

func TestCircuit_StateChangeCallback(t *testing.T) {
	var transitions []string
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		ResetTimeout:     time.Minute,
		OnStateChange: func(from, to CircuitState) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	require.Error(t, cb.Execute(context.Background(), failing))
	cb.Reset()
	assert.Equal(t, []string{"closed->open", "open->closed"}, transitions)
}

func TestExecuteVal(t *testing.T) {
	cb := testBreaker(1, time.Minute)

	v, err := ExecuteVal(context.Background(), cb, func(ctx context.Context) (string, error) {
		return "data", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "data", v)

	_, err = ExecuteVal(context.Background(), cb, func(ctx context.Context) (string, error) {
		return "", errors.New("down")
	})
	require.Error(t, err)

	_, err = ExecuteVal(context.Background(), cb, func(ctx context.Context) (string, error) {
		return "unreachable", nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestProviderBreakers(t *testing.T) {
	pb := NewProviderBreakers(DefaultCircuitBreakerConfig())

	a := pb.Get("compliance")
	b := pb.Get("compliance")
	assert.Same(t, a, b)

	c := pb.Get("registry")
	assert.NotSame(t, a, c)

	states := pb.States()
	assert.Len(t, states, 2)
	assert.Equal(t, CircuitClosed, states["compliance"])
}
