package agent

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/Schera-ole/hostmetrics/internal/clock"
	middlewareinternal "github.com/Schera-ole/hostmetrics/internal/middleware"
	models "github.com/Schera-ole/hostmetrics/internal/model"
	"github.com/Schera-ole/hostmetrics/internal/repository"
	"github.com/Schera-ole/hostmetrics/internal/service"
)

// Sender pushes report events to a remote /updates endpoint as gzip
// compressed JSON, signed with HMAC-SHA256 when a key is set.
type Sender struct {
	client *http.Client
	url    string
	key    string
	clock  clock.Clock
	logger *zap.SugaredLogger
}

// NewSender creates a Sender for url. A nil clk means the real clock.
func NewSender(client *http.Client, url, key string, clk clock.Clock, logger *zap.SugaredLogger) *Sender {
	if client == nil {
		client = http.DefaultClient
	}
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Sender{client: client, url: url, key: key, clock: clk, logger: logger}
}

// Send delivers the metrics of evt. It matches report.SendFunc.
func (s *Sender) Send(evt models.ReportEvent) error {
	return s.SendContext(context.Background(), evt.Metrics)
}

// SendContext posts metrics, retrying connection failures and 5xx
// responses after each of service.RetryDelays.
func (s *Sender) SendContext(ctx context.Context, metrics []models.MetricsDTO) error {
	jsonData, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("error creating json: %w", err)
	}
	var compressedData bytes.Buffer
	gzipWriter := gzip.NewWriter(&compressedData)
	if _, err := gzipWriter.Write(jsonData); err != nil {
		return fmt.Errorf("error compressing data: %w", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("error closing gzip writer: %w", err)
	}
	body := compressedData.Bytes()
	var hash string
	if s.key != "" {
		hash = hex.EncodeToString(middlewareinternal.CalculatedHash(body, s.key))
	}

	var lastErr error
	for attempt := 0; attempt <= len(service.RetryDelays); attempt++ {
		if attempt > 0 {
			delay := service.RetryDelays[attempt-1]
			s.logger.Warnw("retrying metrics push", "attempt", attempt, "delay", delay, "error", lastErr)
			select {
			case <-s.clock.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		retry, err := s.post(ctx, body, hash)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			return err
		}
	}
	return fmt.Errorf("failed to send metrics after %d attempts: %w", len(service.RetryDelays)+1, lastErr)
}

// post makes one attempt and reports whether a failure is worth retrying.
func (s *Sender) post(ctx context.Context, body []byte, hash string) (bool, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("error creating request for %s: %w", s.url, err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Content-Encoding", "gzip")
	if hash != "" {
		request.Header.Set(middlewareinternal.HashHeader, hash)
	}

	response, err := s.client.Do(request)
	if err != nil {
		return repository.IsRetryable(err), fmt.Errorf("error sending request for %s: %w", s.url, err)
	}
	defer response.Body.Close()
	respBody, err := io.ReadAll(response.Body)
	if err != nil {
		return true, fmt.Errorf("error reading response body: %w", err)
	}

	switch {
	case response.StatusCode >= 200 && response.StatusCode < 300:
		return false, nil
	case response.StatusCode >= 500:
		return true, fmt.Errorf("server returned error status %d: %s", response.StatusCode, respBody)
	default:
		return false, fmt.Errorf("server returned error status %d: %s", response.StatusCode, respBody)
	}
}
