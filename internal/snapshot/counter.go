package snapshot

import "time"

// CounterDelta returns after - before for a monotonic counter. A decrease
// means the counter reset or wrapped and yields 0.
func CounterDelta(before, after uint64) uint64 {
	if after >= before {
		return after - before
	}
	return 0
}

// CounterRate returns the per-second rate of a monotonic counter over
// elapsed. It is never negative; a non-positive elapsed yields 0.
func CounterRate(before, after uint64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(CounterDelta(before, after)) / elapsed.Seconds()
}
