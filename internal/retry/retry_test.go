package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("connection refused")

func fastPolicy(attempts int) Policy {
	return Policy{Attempts: attempts, Initial: time.Millisecond, Max: 5 * time.Millisecond, Multiplier: 2}
}

func always(error) bool { return true }

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	var retried []int
	p := fastPolicy(5)
	p.OnRetry = func(attempt int, err error, wait time.Duration) {
		retried = append(retried, attempt)
		assert.ErrorIs(t, err, errTransient)
	}

	got, err := Do(context.Background(), p, always, func(attempt int) (string, error) {
		if attempt < 3 {
			return "", errTransient
		}
		return "connected", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "connected", got)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_GivesUpAfterAttempts(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastPolicy(3), always, func(int) (struct{}, error) {
		calls++
		return struct{}{}, errTransient
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	permanent := errors.New("unsupported driver")
	calls := 0
	_, err := Do(context.Background(), fastPolicy(5), func(err error) bool { return err == errTransient }, func(int) (int, error) {
		calls++
		return 0, permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestDo_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Policy{}, always, func(int) (int, error) {
		calls++
		return 0, errTransient
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := Policy{Attempts: 3, Initial: time.Hour, Multiplier: 2}
	_, err := Do(ctx, p, always, func(int) (int, error) {
		return 0, errTransient
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestPolicy_BackOffSchedule(t *testing.T) {
	p := Policy{Attempts: 6, Initial: 100 * time.Millisecond, Max: 500 * time.Millisecond, Multiplier: 2}
	b := p.BackOff()

	var waits []time.Duration
	for d := b.NextBackOff(); d != backoff.Stop; d = b.NextBackOff() {
		waits = append(waits, d)
	}
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		500 * time.Millisecond,
		500 * time.Millisecond,
	}, waits)
}

func TestPolicy_JitterStaysInRange(t *testing.T) {
	p := Policy{Attempts: 2, Initial: 100 * time.Millisecond, Multiplier: 2, Jitter: 0.1}

	for i := 0; i < 100; i++ {
		d := p.BackOff().NextBackOff()
		assert.GreaterOrEqual(t, d, 90*time.Millisecond)
		assert.LessOrEqual(t, d, 110*time.Millisecond)
	}
}

func TestDefaultPolicy_WaitsBetweenFiveAttempts(t *testing.T) {
	p := DefaultPolicy()
	p.Jitter = 0
	b := p.BackOff()

	var waits []time.Duration
	for d := b.NextBackOff(); d != backoff.Stop; d = b.NextBackOff() {
		waits = append(waits, d)
	}
	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second, 2 * time.Second, 4 * time.Second}, waits)
}
