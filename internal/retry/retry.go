// Package retry re-runs operations that fail transiently, such as the first
// database connection while the database server is still starting.
package retry

import (
	"context"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy configures exponential backoff
type Policy struct {
	Attempts   int
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     float64

	// OnRetry, when set, is called before each wait
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultPolicy waits 0.5s, 1s, 2s and 4s between five attempts
func DefaultPolicy() Policy {
	return Policy{
		Attempts:   5,
		Initial:    500 * time.Millisecond,
		Max:        10 * time.Second,
		Multiplier: 2,
		Jitter:     0.1,
	}
}

// Retryable reports whether an error is worth another attempt
type Retryable func(error) bool

// BackOff returns the wait schedule of p. It stops after Attempts-1 waits.
func (p Policy) BackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Initial
	b.RandomizationFactor = p.Jitter
	b.Multiplier = math.Max(p.Multiplier, 1)
	b.MaxInterval = p.Max
	if b.MaxInterval <= 0 {
		b.MaxInterval = time.Duration(math.MaxInt64)
	}
	b.MaxElapsedTime = 0
	b.Reset()

	retries := p.Attempts - 1
	if retries < 0 {
		retries = 0
	}
	return backoff.WithMaxRetries(b, uint64(retries))
}

// Do calls fn until it succeeds, returns an error retryable rejects, or the
// attempts run out. fn receives the 1-based attempt number.
func Do[T any](ctx context.Context, p Policy, retryable Retryable, fn func(attempt int) (T, error)) (T, error) {
	attempt := 0
	op := func() (T, error) {
		attempt++
		result, err := fn(attempt)
		if err != nil && !retryable(err) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}

	var notify backoff.Notify
	if p.OnRetry != nil {
		notify = func(err error, wait time.Duration) {
			p.OnRetry(attempt, err, wait)
		}
	}
	return backoff.RetryNotifyWithData(op, backoff.WithContext(p.BackOff(), ctx), notify)
}
