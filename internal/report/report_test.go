package report

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Schera-ole/hostmetrics/internal/clock"
	models "github.com/Schera-ole/hostmetrics/internal/model"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testEvent(id string) models.ReportEvent {
	v := 1.5
	return models.ReportEvent{
		ID:      id,
		AgentID: "agent-1",
		TS:      epoch.Format(time.RFC3339),
		Metrics: []models.MetricsDTO{{ID: "mem.available", MType: models.Gauge, Value: &v}},
	}
}

func TestPublisher(t *testing.T) {
	events := make(chan models.ReportEvent, 1)
	p := NewPublisher("agent-1", events, clock.NewFake(epoch), zap.NewNop().Sugar())

	ok := p.Publish([]models.Metric{
		{Name: "net.eth0.recv_bytes_per_sec", Type: models.Gauge, Value: 12.5, CapturedAt: epoch},
		{Name: "net.eth0.recv_bytes_total", Type: models.Counter, Value: int64(400), CapturedAt: epoch},
	})
	require.True(t, ok)

	evt := <-events
	_, err := uuid.Parse(evt.ID)
	assert.NoError(t, err)
	assert.Equal(t, "agent-1", evt.AgentID)
	assert.Equal(t, "2026-03-01T12:00:00Z", evt.TS)
	require.Len(t, evt.Metrics, 2)
	require.NotNil(t, evt.Metrics[0].Value)
	assert.Equal(t, 12.5, *evt.Metrics[0].Value)
	require.NotNil(t, evt.Metrics[1].Delta)
	assert.Equal(t, int64(400), *evt.Metrics[1].Delta)
}

func TestPublisherDropsWhenFull(t *testing.T) {
	events := make(chan models.ReportEvent, 1)
	p := NewPublisher("agent-1", events, clock.NewFake(epoch), zap.NewNop().Sugar())

	assert.True(t, p.Publish(nil))
	assert.False(t, p.Publish(nil))
}

func TestBroadcaster(t *testing.T) {
	source := make(chan models.ReportEvent)
	sub1 := make(chan models.ReportEvent, 1)
	sub2 := make(chan models.ReportEvent, 1)
	done := make(chan struct{})
	go func() {
		Broadcaster(zap.NewNop().Sugar(), source, sub1, sub2)
		close(done)
	}()

	event := testEvent("e1")
	source <- event
	close(source)
	<-done

	assert.Equal(t, event, <-sub1)
	assert.Equal(t, event, <-sub2)
	// subscriber channels are closed once the source is drained
	_, open := <-sub1
	assert.False(t, open)
}

func TestBroadcasterSkipsBlockedSubscriber(t *testing.T) {
	source := make(chan models.ReportEvent)
	blocked := make(chan models.ReportEvent)
	ready := make(chan models.ReportEvent, 2)
	done := make(chan struct{})
	go func() {
		Broadcaster(zap.NewNop().Sugar(), source, blocked, ready)
		close(done)
	}()

	source <- testEvent("e1")
	source <- testEvent("e2")
	close(source)
	<-done

	assert.Equal(t, "e1", (<-ready).ID)
	assert.Equal(t, "e2", (<-ready).ID)
}

func TestFileSubscriber(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.jsonl")
	events := make(chan models.ReportEvent, 2)
	events <- testEvent("e1")
	events <- testEvent("e2")
	close(events)

	FileSubscriber(events, path, zap.NewNop().Sugar())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var got []models.ReportEvent
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var evt models.ReportEvent
		require.NoError(t, json.Unmarshal(sc.Bytes(), &evt))
		got = append(got, evt)
	}
	require.Len(t, got, 2)
	assert.Equal(t, testEvent("e1"), got[0])
	assert.Equal(t, "e2", got[1].ID)
}

func TestFileSubscriberBadPath(t *testing.T) {
	events := make(chan models.ReportEvent, 1)
	events <- testEvent("e1")
	close(events)

	// must not panic or block
	FileSubscriber(events, filepath.Join(t.TempDir(), "missing", "dir", "r.jsonl"), zap.NewNop().Sugar())
}

func TestURLSubscriber(t *testing.T) {
	events := make(chan models.ReportEvent, 3)
	events <- testEvent("e1")
	events <- testEvent("fail")
	events <- testEvent("e3")
	close(events)

	var sent []string
	URLSubscriber(events, func(evt models.ReportEvent) error {
		if evt.ID == "fail" {
			return errors.New("collector down")
		}
		sent = append(sent, evt.ID)
		return nil
	}, zap.NewNop().Sugar())

	assert.Equal(t, []string{"e1", "e3"}, sent)
}
