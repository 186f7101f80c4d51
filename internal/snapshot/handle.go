package snapshot

import (
	"fmt"
	"sync"

	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
)

// call is one invocation of a Handle's source. done is closed once value
// and err are final.
type call[T any] struct {
	done  chan struct{}
	value T
	err   error

	// discarded is set by Refresh while the call is in flight. The outcome
	// still reaches callers that joined before the refresh but is not
	// stored. Guarded by Handle.mu until done is closed.
	discarded bool
}

// Handle lazily computes a Source once and shares the outcome. The zero
// value is not usable; create handles with NewHandle and share them by
// pointer.
type Handle[T any] struct {
	source Source[T]

	mu       sync.Mutex
	inflight *call[T]
	result   *call[T]
}

// NewHandle binds a Handle to source. Nothing is computed until the first
// Get.
func NewHandle[T any](source Source[T]) *Handle[T] {
	return &Handle[T]{source: source}
}

// Get returns the cached outcome, computing it on first use. Concurrent
// callers during a computation wait for that computation instead of starting
// their own. A cached failure is returned as is until Refresh.
func (h *Handle[T]) Get() (T, error) {
	h.mu.Lock()
	for {
		if h.result != nil {
			r := h.result
			h.mu.Unlock()
			return r.value, r.err
		}
		c := h.inflight
		if c == nil {
			break
		}
		// A discarded call belongs to the previous generation: wait for it
		// to finish so that only one source call runs at a time, then
		// start over.
		member := !c.discarded
		h.mu.Unlock()
		<-c.done
		if member {
			return c.value, c.err
		}
		h.mu.Lock()
	}

	c := &call[T]{done: make(chan struct{})}
	h.inflight = c
	h.mu.Unlock()

	h.compute(c)
	return c.value, c.err
}

func (h *Handle[T]) compute(c *call[T]) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			// a source that panics is treated as one that choked on its input
			c.value, c.err = zero, fmt.Errorf("%w: source panicked: %v", internalerrors.ErrMalformedData, r)
		}
		h.mu.Lock()
		if !c.discarded {
			h.result = c
		}
		h.inflight = nil
		close(c.done)
		h.mu.Unlock()
	}()
	c.value, c.err = h.source()
}

// Refresh drops the cached outcome so the next Get recomputes. Values
// already returned to callers are unaffected.
func (h *Handle[T]) Refresh() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.result = nil
	if h.inflight != nil {
		h.inflight.discarded = true
	}
}

// Ready reports whether an outcome is cached.
func (h *Handle[T]) Ready() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result != nil
}
