package snapshot

import (
	"time"

	"github.com/Schera-ole/hostmetrics/internal/clock"
)

// Source produces the current record for one metric category.
type Source[T any] func() (T, error)

// Snapshot is a timestamped capture of a Source.
type Snapshot[T any] struct {
	CapturedAt time.Time
	Payload    T
}

// Capture invokes source and stamps the result with clk.Now taken right
// after the read returns.
func Capture[T any](clk clock.Clock, source Source[T]) (Snapshot[T], error) {
	payload, err := source()
	if err != nil {
		return Snapshot[T]{}, err
	}
	return Snapshot[T]{CapturedAt: clk.Now(), Payload: payload}, nil
}

// Delta is the reduction of two snapshots. Elapsed is always
// After - Before as measured.
type Delta[R any] struct {
	Before  time.Time     `json:"before"`
	After   time.Time     `json:"after"`
	Elapsed time.Duration `json:"elapsed"`
	Fields  R             `json:"fields"`
}
