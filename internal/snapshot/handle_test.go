package snapshot

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
)

type topology struct {
	Cores int
	Model string
}

func TestHandle_SingleFlightUnderConcurrentGet(t *testing.T) {
	for _, n := range []int{1, 2, 16, 128} {
		var calls atomic.Int32
		started := make(chan struct{})
		release := make(chan struct{})
		h := NewHandle(func() (topology, error) {
			if calls.Add(1) == 1 {
				close(started)
			}
			<-release
			return topology{Cores: 8, Model: "EPYC"}, nil
		})

		results := make([]topology, n)
		errs := make([]error, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = h.Get()
			}(i)
		}
		<-started
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load(), "n=%d", n)
		for i := 0; i < n; i++ {
			require.NoError(t, errs[i])
			assert.Equal(t, topology{Cores: 8, Model: "EPYC"}, results[i])
		}
	}
}

func TestHandle_FailureIsCachedUntilRefresh(t *testing.T) {
	var calls atomic.Int32
	failure := internalerrors.Unavailable("cpuinfo", "/proc/cpuinfo", errors.New("permission denied"))
	h := NewHandle(func() (int, error) {
		if calls.Add(1) == 1 {
			return 0, failure
		}
		return 42, nil
	})

	_, err := h.Get()
	require.Error(t, err)
	assert.Same(t, failure, err)
	assert.True(t, errors.Is(err, internalerrors.ErrSourceUnavailable))

	_, err = h.Get()
	assert.Same(t, failure, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, h.Ready())

	h.Refresh()
	assert.False(t, h.Ready())

	v, err := h.Get()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHandle_RefreshTriggersExactlyOneRecompute(t *testing.T) {
	var calls atomic.Int32
	h := NewHandle(func() (int32, error) {
		return calls.Add(1), nil
	})

	first, err := h.Get()
	require.NoError(t, err)
	assert.Equal(t, int32(1), first)

	h.Refresh()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := h.Get()
			assert.NoError(t, err)
			assert.Equal(t, int32(2), v)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(2), calls.Load())
	// the value handed out before the refresh is untouched
	assert.Equal(t, int32(1), first)
}

func TestHandle_RefreshDuringComputation(t *testing.T) {
	var calls, running, maxRunning atomic.Int32
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	h := NewHandle(func() (int32, error) {
		n := calls.Add(1)
		r := running.Add(1)
		defer running.Add(-1)
		for {
			m := maxRunning.Load()
			if r <= m || maxRunning.CompareAndSwap(m, r) {
				break
			}
		}
		if n == 1 {
			close(firstStarted)
			<-releaseFirst
		}
		return n, nil
	})

	joined := make(chan int32)
	go func() {
		v, _ := h.Get()
		joined <- v
	}()
	<-firstStarted

	h.Refresh()

	after := make(chan int32)
	go func() {
		v, _ := h.Get()
		after <- v
	}()

	close(releaseFirst)

	// the caller that started the discarded computation still gets its
	// outcome; the post-refresh caller gets a fresh one
	assert.Equal(t, int32(1), <-joined)
	assert.Equal(t, int32(2), <-after)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, int32(1), maxRunning.Load())

	v, err := h.Get()
	require.NoError(t, err)
	assert.Equal(t, int32(2), v)
}

func TestHandle_SourcePanicReleasesWaiters(t *testing.T) {
	h := NewHandle(func() (string, error) {
		panic("bad table")
	})

	_, err := h.Get()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad table")
	assert.True(t, errors.Is(err, internalerrors.ErrMalformedData))

	_, err2 := h.Get()
	assert.Equal(t, err, err2)
}
