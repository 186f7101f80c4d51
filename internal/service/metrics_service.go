// Package service provides the business logic layer between the HTTP and
// agent code and the history repository.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/Schera-ole/hostmetrics/internal/clock"
	models "github.com/Schera-ole/hostmetrics/internal/model"
	"github.com/Schera-ole/hostmetrics/internal/repository"
)

// RetryDelays are the waits between storage attempts after a retryable
// failure.
var RetryDelays = []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second}

// MetricsService provides methods for storing and reading metric history.
//
// It delegates operations to an underlying repository implementation.
type MetricsService struct {
	// repository is the underlying data storage implementation
	repository repository.Repository

	clock  clock.Clock
	logger *zap.SugaredLogger
}

// NewMetricsService creates a new MetricsService with the specified
// repository. A nil clk means the real clock.
func NewMetricsService(repo repository.Repository, clk clock.Clock, logger *zap.SugaredLogger) *MetricsService {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &MetricsService{repository: repo, clock: clk, logger: logger}
}

// Append stores samples, retrying retryable failures after each of
// RetryDelays.
func (ms *MetricsService) Append(ctx context.Context, samples []models.Sample) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = ms.repository.Append(ctx, samples)
		if err == nil || !repository.IsRetryable(err) || attempt >= len(RetryDelays) {
			break
		}
		delay := RetryDelays[attempt]
		ms.logger.Warnw("retrying storage append", "attempt", attempt+1, "delay", delay, "error", err)
		select {
		case <-ms.clock.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err != nil {
		return fmt.Errorf("append %d samples: %w", len(samples), err)
	}
	return nil
}

// AppendMetrics stores flattened metrics.
func (ms *MetricsService) AppendMetrics(ctx context.Context, metrics []models.Metric) error {
	samples := make([]models.Sample, 0, len(metrics))
	for _, m := range metrics {
		samples = append(samples, m.ToSample())
	}
	return ms.Append(ctx, samples)
}

// ErrInvalidMetric is returned for a DTO without a value matching its type.
var ErrInvalidMetric = errors.New("invalid metric")

// AppendDTOs validates and stores a received batch. Nothing is stored if
// any DTO is invalid.
func (ms *MetricsService) AppendDTOs(ctx context.Context, dtos []models.MetricsDTO) error {
	now := ms.clock.Now()
	samples := make([]models.Sample, 0, len(dtos))
	for _, dto := range dtos {
		s, ok := dto.ToSample(now)
		if !ok || s.Name == "" {
			return fmt.Errorf("%w: %q of type %q", ErrInvalidMetric, dto.ID, dto.MType)
		}
		samples = append(samples, s)
	}
	return ms.Append(ctx, samples)
}

// Latest returns the newest sample of a series.
func (ms *MetricsService) Latest(ctx context.Context, name string) (models.Sample, error) {
	return ms.repository.Latest(ctx, name)
}

// History returns up to limit samples of a series, newest first.
func (ms *MetricsService) History(ctx context.Context, name string, limit int) ([]models.Sample, error) {
	return ms.repository.History(ctx, name, limit)
}

// List returns the newest sample of every series.
func (ms *MetricsService) List(ctx context.Context) ([]models.Sample, error) {
	return ms.repository.List(ctx)
}

// Ping checks the repository connection, delegating to the repository implementation.
func (ms *MetricsService) Ping(ctx context.Context) error {
	return ms.repository.Ping(ctx)
}

// IsMemStorage checks if the underlying repository is a MemStorage implementation.
func (ms *MetricsService) IsMemStorage() bool {
	_, isMemStorage := ms.repository.(*repository.MemStorage)
	return isMemStorage
}

// SaveSamples writes the retained history of every series to fname as
// JSON, oldest first.
func (ms *MetricsService) SaveSamples(ctx context.Context, fname string) error {
	latest, err := ms.repository.List(ctx)
	if err != nil {
		return fmt.Errorf("listing series: %w", err)
	}
	var all []models.Sample
	for _, s := range latest {
		history, err := ms.repository.History(ctx, s.Name, 0)
		if err != nil {
			return fmt.Errorf("reading history of %s: %w", s.Name, err)
		}
		slices.Reverse(history)
		all = append(all, history...)
	}

	file, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	return json.NewEncoder(file).Encode(all)
}

// RestoreSamples appends the samples saved by SaveSamples. A missing file
// is not an error.
func (ms *MetricsService) RestoreSamples(ctx context.Context, fname string) error {
	file, err := os.Open(fname)
	if errors.Is(err, os.ErrNotExist) {
		ms.logger.Infof("storage file not exists %s", fname)
		return nil
	}
	if err != nil {
		return fmt.Errorf("error while opening file to restore: %w", err)
	}
	defer file.Close()

	var samples []models.Sample
	if err := json.NewDecoder(file).Decode(&samples); err != nil {
		return fmt.Errorf("error while decoding file store: %w", err)
	}
	return ms.repository.Append(ctx, samples)
}
