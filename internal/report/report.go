// Package report distributes report events produced by the agent.
//
// It implements a publish-subscribe pattern: a Publisher feeds one source
// channel, the Broadcaster copies every event to each subscriber channel,
// and subscribers write events to a file or hand them to a sender.
package report

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Schera-ole/hostmetrics/internal/clock"
	models "github.com/Schera-ole/hostmetrics/internal/model"
)

// Publisher turns collected metrics into report events.
type Publisher interface {
	// Publish sends one event for metrics. It never blocks; when the
	// channel is full the event is dropped.
	Publish(metrics []models.Metric) bool
}

type publisher struct {
	agentID   string
	eventChan chan<- models.ReportEvent
	clock     clock.Clock
	logger    *zap.SugaredLogger
}

// NewPublisher creates a Publisher that sends events to eventChan.
func NewPublisher(agentID string, eventChan chan<- models.ReportEvent, clk clock.Clock, logger *zap.SugaredLogger) Publisher {
	if clk == nil {
		clk = clock.Real()
	}
	return &publisher{agentID: agentID, eventChan: eventChan, clock: clk, logger: logger}
}

func (p *publisher) Publish(metrics []models.Metric) bool {
	dtos := make([]models.MetricsDTO, 0, len(metrics))
	for _, m := range metrics {
		dtos = append(dtos, m.ToDTO())
	}
	event := models.ReportEvent{
		ID:      uuid.NewString(),
		AgentID: p.agentID,
		TS:      p.clock.Now().UTC().Format(time.RFC3339),
		Metrics: dtos,
	}

	select {
	case p.eventChan <- event:
		return true
	default:
		// Channel is full, drop the event to prevent blocking
		p.logger.Warnw("report event dropped, channel is full", "event", event.ID)
		return false
	}
}

// Broadcaster distributes events to every subscriber channel until source
// is closed, then closes the subscriber channels.
//
// A blocked subscriber loses the event instead of stalling the others.
func Broadcaster(logger *zap.SugaredLogger, source <-chan models.ReportEvent, subs ...chan<- models.ReportEvent) {
	defer func() {
		for _, subChan := range subs {
			close(subChan)
		}
	}()
	for evt := range source {
		for i, subChan := range subs {
			select {
			case subChan <- evt:
			default:
				logger.Warnw("report event dropped for blocked subscriber", "subscriber", i, "event", evt.ID)
			}
		}
	}
}

// FileSubscriber appends each event to path as one JSON line. It returns
// when events is closed.
func FileSubscriber(events <-chan models.ReportEvent, path string, logger *zap.SugaredLogger) {
	for evt := range events {
		data, err := json.Marshal(evt)
		if err != nil {
			logger.Errorw("marshalling report event", "event", evt.ID, "error", err)
			continue
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Errorw("opening report file", "path", path, "error", err)
			continue
		}
		if _, err := f.Write(append(data, '\n')); err != nil {
			logger.Errorw("writing report file", "path", path, "error", err)
		}
		f.Close()
		logger.Debugw("report event written", "path", path, "event", evt.ID)
	}
}

// SendFunc delivers one event to a remote collector.
type SendFunc func(models.ReportEvent) error

// URLSubscriber hands each event to send. It returns when events is closed.
func URLSubscriber(events <-chan models.ReportEvent, send SendFunc, logger *zap.SugaredLogger) {
	for evt := range events {
		if err := send(evt); err != nil {
			logger.Errorw("sending report event", "event", evt.ID, "error", err)
			continue
		}
		logger.Debugw("report event sent", "event", evt.ID, "metrics", len(evt.Metrics))
	}
}
