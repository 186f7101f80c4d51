package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/Schera-ole/hostmetrics/internal/clock"
	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
)

// Reducer turns two snapshots into a delta record. Rate fields go through
// CounterRate with elapsed; point-in-time fields are copied from after.
type Reducer[T, R any] func(before, after T, elapsed time.Duration) R

// Sampler derives rates from two captures of the same Source separated by a
// requested duration. A Sampler holds no per-call state and can be shared by
// any number of goroutines; concurrent samples never share captures.
type Sampler[T, R any] struct {
	source Source[T]
	reduce Reducer[T, R]
	clock  clock.Clock
}

// NewSampler binds source and reduce. A nil clk means the real clock.
func NewSampler[T, R any](source Source[T], reduce Reducer[T, R], clk clock.Clock) *Sampler[T, R] {
	if clk == nil {
		clk = clock.Real()
	}
	return &Sampler[T, R]{source: source, reduce: reduce, clock: clk}
}

// Sample blocks the calling goroutine for d between two captures and returns
// the reduced delta. A non-positive d is rejected with ErrMeasurement before
// the source is touched. If ctx is done before the second capture, Sample
// fails with ErrCancelled. Any source failure fails the whole sample.
func (s *Sampler[T, R]) Sample(ctx context.Context, d time.Duration) (Delta[R], error) {
	if d <= 0 {
		return Delta[R]{}, fmt.Errorf("%w: sample duration must be positive, got %s", internalerrors.ErrMeasurement, d)
	}
	if err := ctx.Err(); err != nil {
		return Delta[R]{}, fmt.Errorf("%w: %w", internalerrors.ErrCancelled, err)
	}

	before, err := Capture(s.clock, s.source)
	if err != nil {
		return Delta[R]{}, err
	}

	select {
	case <-s.clock.After(d):
	case <-ctx.Done():
		return Delta[R]{}, fmt.Errorf("%w: %w", internalerrors.ErrCancelled, ctx.Err())
	}

	after, err := Capture(s.clock, s.source)
	if err != nil {
		return Delta[R]{}, err
	}

	elapsed := after.CapturedAt.Sub(before.CapturedAt)
	if elapsed <= 0 {
		return Delta[R]{}, fmt.Errorf("%w: clock did not advance between captures (%s)", internalerrors.ErrMeasurement, elapsed)
	}

	return Delta[R]{
		Before:  before.CapturedAt,
		After:   after.CapturedAt,
		Elapsed: elapsed,
		Fields:  s.reduce(before.Payload, after.Payload, elapsed),
	}, nil
}

// Result is the outcome of an asynchronous sample.
type Result[R any] struct {
	Delta Delta[R]
	Err   error
}

// Go runs Sample on a new goroutine. The returned channel receives exactly
// one Result and is then closed.
func (s *Sampler[T, R]) Go(ctx context.Context, d time.Duration) <-chan Result[R] {
	out := make(chan Result[R], 1)
	go func() {
		defer close(out)
		delta, err := s.Sample(ctx, d)
		out <- Result[R]{Delta: delta, Err: err}
	}()
	return out
}
