package repository

import (
	"context"
	"sort"
	"sync"

	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
	models "github.com/Schera-ole/hostmetrics/internal/model"
)

// MemStorage implements the Repository interface using in-memory storage.
type MemStorage struct {
	// mu provides thread-safe access to series
	mu sync.RWMutex

	// series maps a name to its ring of samples
	series map[string]*ring

	// limit is the number of samples kept per series
	limit int
}

// ring keeps the last len(buf) samples; next is the slot written next.
type ring struct {
	buf  []models.Sample
	next int
	full bool
}

func (r *ring) push(s models.Sample) {
	r.buf[r.next] = s
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
}

func (r *ring) len() int {
	if r.full {
		return len(r.buf)
	}
	return r.next
}

// newest returns the i-th newest sample, 0 being the latest.
func (r *ring) newest(i int) models.Sample {
	idx := (r.next - 1 - i + len(r.buf)) % len(r.buf)
	return r.buf[idx]
}

// NewMemStorage creates a new in-memory storage instance keeping up to
// limit samples per series. A non-positive limit keeps one.
func NewMemStorage(limit int) *MemStorage {
	if limit < 1 {
		limit = 1
	}
	return &MemStorage{
		series: make(map[string]*ring),
		limit:  limit,
	}
}

// Append stores samples, evicting the oldest sample of a full series.
func (ms *MemStorage) Append(ctx context.Context, samples []models.Sample) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, s := range samples {
		r, ok := ms.series[s.Name]
		if !ok {
			r = &ring{buf: make([]models.Sample, ms.limit)}
			ms.series[s.Name] = r
		}
		r.push(s)
	}
	return nil
}

// Latest returns the most recent sample of name.
func (ms *MemStorage) Latest(ctx context.Context, name string) (models.Sample, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	r, ok := ms.series[name]
	if !ok || r.len() == 0 {
		return models.Sample{}, internalerrors.ErrMetricNotFound
	}
	return r.newest(0), nil
}

// History returns retained samples of name, newest first.
func (ms *MemStorage) History(ctx context.Context, name string, limit int) ([]models.Sample, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	r, ok := ms.series[name]
	if !ok {
		return nil, internalerrors.ErrMetricNotFound
	}
	n := r.len()
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.Sample, n)
	for i := range out {
		out[i] = r.newest(i)
	}
	return out, nil
}

// List returns the latest sample of every series.
func (ms *MemStorage) List(ctx context.Context) ([]models.Sample, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	out := make([]models.Sample, 0, len(ms.series))
	for _, r := range ms.series {
		out = append(out, r.newest(0))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Ping checks the health of the memory storage.
//
// For MemStorage, this always returns nil since there are no external dependencies.
func (ms *MemStorage) Ping(ctx context.Context) error {
	return nil
}

// Close releases any resources held by the memory storage.
func (ms *MemStorage) Close() error {
	return nil
}
