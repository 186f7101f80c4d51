package agent

import (
	"context"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.uber.org/zap"

	"github.com/Schera-ole/hostmetrics/internal/clock"
	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
	models "github.com/Schera-ole/hostmetrics/internal/model"
	"github.com/Schera-ole/hostmetrics/internal/report"
	"github.com/Schera-ole/hostmetrics/internal/service"
	"github.com/Schera-ole/hostmetrics/internal/system"
)

// Options tunes the collection loop.
type Options struct {
	// Interval separates the starts of two collection passes.
	Interval time.Duration
	// Window is the sampling window of the rate categories.
	Window time.Duration
	// Workers is the number of passes that may run at once.
	Workers int
}

// Agent periodically collects every category, stores the flattened series
// and publishes them as report events.
type Agent struct {
	system    *system.System
	service   *service.MetricsService
	publisher report.Publisher
	clock     clock.Clock
	logger    *zap.SugaredLogger
	opts      Options

	// CPUPercent reports per-CPU utilization since its previous call. Nil
	// disables the cpu.<n>.utilization series.
	CPUPercent func() ([]float64, error)
}

// New creates an Agent. publisher may be nil when no subscriber is
// configured.
func New(sys *system.System, metricService *service.MetricsService, publisher report.Publisher, clk clock.Clock, logger *zap.SugaredLogger, opts Options) *Agent {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Agent{
		system:     sys,
		service:    metricService,
		publisher:  publisher,
		clock:      clk,
		logger:     logger,
		opts:       opts,
		CPUPercent: func() ([]float64, error) { return cpu.Percent(0, true) },
	}
}

// Run schedules a pass every Interval until ctx is done, then waits for the
// passes in progress. When every worker is busy the tick is skipped.
func (a *Agent) Run(ctx context.Context) {
	jobs := make(chan time.Time, a.opts.Workers)
	var wg sync.WaitGroup
	for range a.opts.Workers {
		sys := a.system.Clone()
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.worker(ctx, sys, jobs)
		}()
	}
	defer func() {
		close(jobs)
		wg.Wait()
	}()

	for {
		select {
		case jobs <- a.clock.Now():
		default:
			a.logger.Warnw("collection pass skipped, all workers busy", "workers", a.opts.Workers)
		}
		select {
		case <-ctx.Done():
			a.logger.Info("agent stopping")
			return
		case <-a.clock.After(a.opts.Interval):
		}
	}
}

func (a *Agent) worker(ctx context.Context, sys *system.System, jobs <-chan time.Time) {
	for scheduled := range jobs {
		metrics, err := a.Pass(ctx, sys)
		if err != nil {
			if internalerrors.IsCancelled(err) {
				return
			}
			a.logger.Errorw("collection pass failed", "scheduled", scheduled, "error", err)
			continue
		}
		if err := a.service.AppendMetrics(ctx, metrics); err != nil {
			a.logger.Errorw("storing metrics", "metrics", len(metrics), "error", err)
		}
		if a.publisher != nil {
			a.publisher.Publish(metrics)
		}
	}
}

// volatile are the cached categories whose values drift between passes.
var volatile = []system.Category{system.CategoryMemory, system.CategoryHost}

// Pass runs one collection over sys and returns the flattened series.
// Failed categories are logged and left out.
func (a *Agent) Pass(ctx context.Context, sys *system.System) ([]models.Metric, error) {
	for _, c := range volatile {
		if err := sys.Refresh(c); err != nil {
			return nil, err
		}
	}
	rep, err := sys.Collect(ctx, a.opts.Window)
	if err != nil {
		return nil, err
	}
	for category, reason := range rep.Errors {
		a.logger.Debugw("category skipped", "category", category, "reason", reason)
	}
	metrics := Flatten(rep)
	if a.CPUPercent != nil {
		percents, err := a.CPUPercent()
		if err != nil {
			a.logger.Debugw("cpu utilization unavailable", "error", err)
		} else {
			metrics = append(metrics, utilization(percents, rep.CollectedAt)...)
		}
	}
	return metrics, nil
}
