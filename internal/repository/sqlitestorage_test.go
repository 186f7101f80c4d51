package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
	"github.com/Schera-ole/hostmetrics/internal/migration"
	models "github.com/Schera-ole/hostmetrics/internal/model"
)

func newSQLite(t *testing.T) *SQLiteStorage {
	t.Helper()
	storage, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })
	require.NoError(t, migration.RunMigrations(storage.DB(), migration.SQLite, zap.NewNop().Sugar()))
	return storage
}

func TestSQLiteStorage_RoundTrip(t *testing.T) {
	storage := newSQLite(t)
	ctx := context.Background()

	require.NoError(t, storage.Ping(ctx))
	require.NoError(t, storage.Append(ctx, []models.Sample{
		gauge("net.eth0.recv_bytes_per_sec", 10, 0),
		gauge("net.eth0.recv_bytes_per_sec", 20, time.Second),
		gauge("net.eth0.recv_bytes_per_sec", 30, 2*time.Second),
		gauge("mem.available", 5, 0),
	}))

	latest, err := storage.Latest(ctx, "net.eth0.recv_bytes_per_sec")
	require.NoError(t, err)
	assert.Equal(t, 30.0, latest.Value)
	assert.True(t, epoch.Add(2*time.Second).Equal(latest.CapturedAt))

	history, err := storage.History(ctx, "net.eth0.recv_bytes_per_sec", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 30.0, history[0].Value)
	assert.Equal(t, 20.0, history[1].Value)

	all, err := storage.History(ctx, "net.eth0.recv_bytes_per_sec", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	list, err := storage.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "mem.available", list[0].Name)
	assert.Equal(t, 30.0, list[1].Value)

	_, err = storage.Latest(ctx, "missing")
	assert.True(t, errors.Is(err, internalerrors.ErrMetricNotFound))
}

func TestSQLiteStorage_AppendEmpty(t *testing.T) {
	storage := newSQLite(t)
	assert.NoError(t, storage.Append(context.Background(), nil))
}

func TestDollarPlaceholders(t *testing.T) {
	assert.Equal(t,
		"INSERT INTO samples (name, type, value, captured_at) VALUES ($1, $2, $3, $4)",
		dollarPlaceholders(insertSample))
	assert.Equal(t, insertSample, questionMarks(insertSample))
}
