// Package retry provides the fixed-interval polling primitive used by the
// lifecycle manager: invoke a boolean operation until it reports success,
// sleeping a fixed interval between attempts.
//
// Failures in this domain are expected to be transient infrastructure
// hiccups, so the default policy retries without an attempt bound; stricter
// deployments can cap attempts or cancel the context.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultInterval is the pause between attempts when a policy does not set
// one.
const DefaultInterval = 100 * time.Millisecond

// ErrAttemptsExhausted is returned by Poll when MaxAttempts was reached
// without the operation reporting success.
var ErrAttemptsExhausted = errors.New("retry: attempts exhausted")

// errNotDone marks an attempt that reported failure; it never escapes Poll.
var errNotDone = errors.New("retry: operation not done")

// Policy describes a fixed-interval polling schedule.
type Policy struct {
	// Interval is the pause between attempts. Zero means DefaultInterval.
	Interval time.Duration

	// MaxAttempts bounds the number of attempts. Zero means unbounded.
	MaxAttempts uint64
}

// Poll invokes op until it returns true, pausing Interval between attempts.
//
// Returns nil once op succeeds, the context error if ctx is cancelled
// while waiting, or ErrAttemptsExhausted when the attempt bound is hit.
func (p Policy) Poll(ctx context.Context, op func() bool) error {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	var sched backoff.BackOff = backoff.WithContext(backoff.NewConstantBackOff(interval), ctx)
	if p.MaxAttempts > 0 {
		// MaxRetries counts retries after the first attempt.
		sched = backoff.WithMaxRetries(sched, p.MaxAttempts-1)
	}

	err := backoff.Retry(func() error {
		if op() {
			return nil
		}
		return errNotDone
	}, sched)

	if errors.Is(err, errNotDone) {
		return ErrAttemptsExhausted
	}
	return err
}

// Poll runs an unbounded fixed-interval poll, the schedule used for bus
// registration retries and availability waits.
func Poll(ctx context.Context, interval time.Duration, op func() bool) error {
	return Policy{Interval: interval}.Poll(ctx, op)
}
