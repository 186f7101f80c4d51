package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCounterDelta(t *testing.T) {
	tests := []struct {
		name          string
		before, after uint64
		want          uint64
	}{
		{"advancing", 100, 250, 150},
		{"unchanged", 7, 7, 0},
		{"reset", 1 << 40, 12, 0},
		{"wrapped", ^uint64(0) - 5, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CounterDelta(tt.before, tt.after))
		})
	}
}

func TestCounterRate(t *testing.T) {
	assert.InDelta(t, 500.0, CounterRate(1000, 2000, 2*time.Second), 1e-9)
	assert.Equal(t, 0.0, CounterRate(2000, 1000, time.Second))
	assert.Equal(t, 0.0, CounterRate(0, 1000, 0))
	assert.Equal(t, 0.0, CounterRate(0, 1000, -time.Second))
}
