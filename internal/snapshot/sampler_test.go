package snapshot

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Schera-ole/hostmetrics/internal/clock"
	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type counters struct {
	Bytes uint64
	Up    bool
}

type rates struct {
	BytesPerSec float64
	Up          bool
}

func reduceCounters(before, after counters, elapsed time.Duration) rates {
	return rates{
		BytesPerSec: CounterRate(before.Bytes, after.Bytes, elapsed),
		Up:          after.Up,
	}
}

// runSample starts Sample on a goroutine, waits for it to park on the fake
// clock and advances by wake.
func runSample[T, R any](t *testing.T, c *clock.Fake, s *Sampler[T, R], d, wake time.Duration) (Delta[R], error) {
	t.Helper()
	out := s.Go(context.Background(), d)
	c.WaitForTimers(1)
	c.Advance(wake)
	select {
	case res := <-out:
		return res.Delta, res.Err
	case <-time.After(5 * time.Second):
		require.FailNow(t, "sample did not complete")
		return Delta[R]{}, nil
	}
}

func TestSampler_RateUsesMeasuredElapsed(t *testing.T) {
	const rate = 125_000.0 // bytes per second

	tests := []struct {
		name string
		wake time.Duration
	}{
		{"on time", time.Second},
		{"late by 200ms", 1200 * time.Millisecond},
		{"late by 50ms", 1050 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := clock.NewFake(epoch)
			source := func() (counters, error) {
				seconds := c.Now().Sub(epoch).Seconds()
				return counters{Bytes: uint64(rate * seconds), Up: true}, nil
			}
			s := NewSampler(source, reduceCounters, c)

			delta, err := runSample(t, c, s, time.Second, tt.wake)
			require.NoError(t, err)
			assert.Equal(t, tt.wake, delta.Elapsed)
			assert.Equal(t, epoch, delta.Before)
			assert.Equal(t, epoch.Add(tt.wake), delta.After)
			assert.InEpsilon(t, rate, delta.Fields.BytesPerSec, 0.001)
			assert.True(t, delta.Fields.Up)
		})
	}
}

func TestSampler_CounterResetYieldsZero(t *testing.T) {
	c := clock.NewFake(epoch)
	values := []uint64{9_000_000, 1_024}
	var calls atomic.Int32
	source := func() (counters, error) {
		return counters{Bytes: values[calls.Add(1)-1]}, nil
	}
	s := NewSampler(source, reduceCounters, c)

	delta, err := runSample(t, c, s, time.Second, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0.0, delta.Fields.BytesPerSec)
}

func TestSampler_SecondCaptureFailure(t *testing.T) {
	c := clock.NewFake(epoch)
	failure := internalerrors.Malformed("netdev", "/proc/net/dev", "truncated")
	var calls atomic.Int32
	source := func() (counters, error) {
		if calls.Add(1) == 2 {
			return counters{}, failure
		}
		return counters{Bytes: 10}, nil
	}
	s := NewSampler(source, reduceCounters, c)

	delta, err := runSample(t, c, s, time.Second, time.Second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerrors.ErrMalformedData))
	assert.Equal(t, Delta[rates]{}, delta)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSampler_FirstCaptureFailure(t *testing.T) {
	c := clock.NewFake(epoch)
	var calls atomic.Int32
	s := NewSampler(func() (counters, error) {
		calls.Add(1)
		return counters{}, internalerrors.Unavailable("netdev", "/proc/net/dev", errors.New("no such file"))
	}, reduceCounters, c)

	_, err := s.Sample(context.Background(), time.Second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerrors.ErrSourceUnavailable))
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 0, c.Pending())
}

func TestSampler_NonPositiveDurationRejectedWithoutIO(t *testing.T) {
	c := clock.NewFake(epoch)
	var calls atomic.Int32
	s := NewSampler(func() (counters, error) {
		calls.Add(1)
		return counters{}, nil
	}, reduceCounters, c)

	for _, d := range []time.Duration{0, -time.Second} {
		_, err := s.Sample(context.Background(), d)
		require.Error(t, err)
		assert.True(t, errors.Is(err, internalerrors.ErrMeasurement))
	}
	assert.Equal(t, int32(0), calls.Load())
}

func TestSampler_CancelledWhileWaiting(t *testing.T) {
	c := clock.NewFake(epoch)
	var calls atomic.Int32
	s := NewSampler(func() (counters, error) {
		calls.Add(1)
		return counters{Bytes: 1}, nil
	}, reduceCounters, c)

	ctx, cancel := context.WithCancel(context.Background())
	out := s.Go(ctx, time.Minute)
	c.WaitForTimers(1)
	cancel()

	res := <-out
	require.Error(t, res.Err)
	assert.True(t, errors.Is(res.Err, internalerrors.ErrCancelled))
	assert.True(t, errors.Is(res.Err, context.Canceled))
	assert.Equal(t, int32(1), calls.Load())

	_, open := <-out
	assert.False(t, open)
}

func TestSampler_AlreadyCancelledContext(t *testing.T) {
	var calls atomic.Int32
	s := NewSampler(func() (counters, error) {
		calls.Add(1)
		return counters{}, nil
	}, reduceCounters, clock.NewFake(epoch))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Sample(ctx, time.Second)
	assert.True(t, errors.Is(err, internalerrors.ErrCancelled))
	assert.Equal(t, int32(0), calls.Load())
}

// frozenClock never advances but fires timers immediately.
type frozenClock struct{}

func (frozenClock) Now() time.Time { return epoch }

func (frozenClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- epoch
	return ch
}

func TestSampler_ClockDidNotAdvance(t *testing.T) {
	s := NewSampler(func() (counters, error) {
		return counters{Bytes: 5}, nil
	}, reduceCounters, frozenClock{})

	_, err := s.Sample(context.Background(), time.Second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerrors.ErrMeasurement))
}

func TestSampler_ConcurrentSamplesAreIndependent(t *testing.T) {
	c := clock.NewFake(epoch)
	var calls atomic.Int32
	s := NewSampler(func() (counters, error) {
		calls.Add(1)
		return counters{Bytes: uint64(c.Now().Sub(epoch).Seconds() * 10)}, nil
	}, reduceCounters, c)

	first := s.Go(context.Background(), time.Second)
	second := s.Go(context.Background(), 2*time.Second)
	c.WaitForTimers(2)
	c.Advance(2 * time.Second)

	a, b := <-first, <-second
	require.NoError(t, a.Err)
	require.NoError(t, b.Err)
	assert.Equal(t, int32(4), calls.Load())
	assert.InDelta(t, 10.0, a.Delta.Fields.BytesPerSec, 1e-9)
	assert.InDelta(t, 10.0, b.Delta.Fields.BytesPerSec, 1e-9)
}
