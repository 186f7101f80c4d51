package agent

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Schera-ole/hostmetrics/internal/clock"
	middlewareinternal "github.com/Schera-ole/hostmetrics/internal/middleware"
	models "github.com/Schera-ole/hostmetrics/internal/model"
)

func sampleDTOs() []models.MetricsDTO {
	v := 42.5
	return []models.MetricsDTO{{ID: "mem.used_percent", MType: models.Gauge, Value: &v}}
}

func TestSenderSignsCompressedBody(t *testing.T) {
	const key = "secret"
	var received []models.MetricsDTO
	var hashOK atomic.Bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		hashOK.Store(r.Header.Get(middlewareinternal.HashHeader) == hex.EncodeToString(middlewareinternal.CalculatedHash(raw, key)))
		gz, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := json.NewDecoder(gz).Decode(&received); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	s := NewSender(ts.Client(), ts.URL+"/updates", key, clock.NewFake(epoch), nil)
	require.NoError(t, s.Send(models.ReportEvent{ID: "e1", Metrics: sampleDTOs()}))

	assert.True(t, hashOK.Load())
	require.Len(t, received, 1)
	assert.Equal(t, "mem.used_percent", received[0].ID)
	assert.Equal(t, 42.5, *received[0].Value)
}

func TestSenderRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := clock.NewFake(epoch)
	s := NewSender(ts.Client(), ts.URL, "", c, nil)
	done := make(chan error, 1)
	go func() { done <- s.SendContext(context.Background(), sampleDTOs()) }()

	c.WaitForTimers(1)
	c.Advance(time.Second)

	require.NoError(t, <-done)
	assert.Equal(t, int32(2), hits.Load())
}

func TestSenderDoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "hash mismatch", http.StatusBadRequest)
	}))
	defer ts.Close()

	c := clock.NewFake(epoch)
	s := NewSender(ts.Client(), ts.URL, "k", c, nil)
	err := s.SendContext(context.Background(), sampleDTOs())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, 0, c.Pending())
}

func TestSenderStopsRetryingOnCancel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := clock.NewFake(epoch)
	s := NewSender(ts.Client(), ts.URL, "", c, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.SendContext(ctx, sampleDTOs()) }()

	c.WaitForTimers(1)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
