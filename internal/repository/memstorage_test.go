package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
	models "github.com/Schera-ole/hostmetrics/internal/model"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func gauge(name string, value float64, offset time.Duration) models.Sample {
	return models.Sample{Name: name, Type: models.Gauge, Value: value, CapturedAt: epoch.Add(offset)}
}

func TestNewMemStorage(t *testing.T) {
	storage := NewMemStorage(0)
	assert.NotNil(t, storage)
	assert.NotNil(t, storage.series)
	assert.Equal(t, 1, storage.limit)
}

func TestMemStorage_AppendAndLatest(t *testing.T) {
	storage := NewMemStorage(10)
	ctx := context.Background()

	require.NoError(t, storage.Append(ctx, []models.Sample{
		gauge("net.eth0.recv_bytes_per_sec", 1, 0),
		gauge("net.eth0.recv_bytes_per_sec", 2, time.Second),
	}))

	latest, err := storage.Latest(ctx, "net.eth0.recv_bytes_per_sec")
	require.NoError(t, err)
	assert.Equal(t, 2.0, latest.Value)
	assert.Equal(t, epoch.Add(time.Second), latest.CapturedAt)

	// Test getting a non-existent series
	_, err = storage.Latest(ctx, "nonExistent")
	assert.True(t, errors.Is(err, internalerrors.ErrMetricNotFound))
}

func TestMemStorage_HistoryEvictsOldest(t *testing.T) {
	storage := NewMemStorage(3)
	ctx := context.Background()

	for i := range 5 {
		require.NoError(t, storage.Append(ctx, []models.Sample{gauge("mem.free", float64(i), time.Duration(i)*time.Second)}))
	}

	tests := []struct {
		limit int
		want  []float64
	}{
		{0, []float64{4, 3, 2}},
		{2, []float64{4, 3}},
		{10, []float64{4, 3, 2}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("limit %d", tt.limit), func(t *testing.T) {
			history, err := storage.History(ctx, "mem.free", tt.limit)
			require.NoError(t, err)
			got := make([]float64, len(history))
			for i, s := range history {
				got[i] = s.Value
			}
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := storage.History(ctx, "mem.used", 0)
	assert.True(t, errors.Is(err, internalerrors.ErrMetricNotFound))
}

func TestMemStorage_List(t *testing.T) {
	storage := NewMemStorage(5)
	ctx := context.Background()

	require.NoError(t, storage.Append(ctx, []models.Sample{
		gauge("b", 1, 0),
		gauge("a", 1, 0),
		gauge("b", 2, time.Second),
		{Name: "irq.0.total", Type: models.Counter, Value: 44, CapturedAt: epoch},
	}))

	samples, err := storage.List(ctx)
	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.Equal(t, "a", samples[0].Name)
	assert.Equal(t, "b", samples[1].Name)
	assert.Equal(t, 2.0, samples[1].Value)
	assert.Equal(t, models.Counter, samples[2].Type)
}

func TestMemStorage_PingAndClose(t *testing.T) {
	storage := NewMemStorage(1)
	assert.NoError(t, storage.Ping(context.Background()))
	assert.NoError(t, storage.Close())
}
