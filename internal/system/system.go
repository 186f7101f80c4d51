package system

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Schera-ole/hostmetrics/internal/clock"
	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
	models "github.com/Schera-ole/hostmetrics/internal/model"
	"github.com/Schera-ole/hostmetrics/internal/snapshot"
)

// System is the metrics facade. It has no mutable state of its own: the
// handles and samplers it points to are shared with every clone.
type System struct {
	cpu           *snapshot.Handle[models.CPUInfo]
	memory        *snapshot.Handle[models.MemInfo]
	memoryModules *snapshot.Handle[[]models.MemoryModule]
	interrupts    *snapshot.Handle[[]models.InterruptDetails]
	irq           *snapshot.Handle[[]models.IrqDetails]
	host          *snapshot.Handle[models.HostInfo]

	network       *snapshot.Sampler[[]models.NetDevStat, []models.NetworkRate]
	interruptRate *snapshot.Sampler[[]models.InterruptDetails, []models.InterruptRate]

	clock  clock.Clock
	logger *zap.SugaredLogger
}

// New builds the handles and samplers for sources. Nothing is read until a
// category is first requested. A nil clk means the real clock and a nil
// logger discards output.
func New(sources Sources, clk clock.Clock, logger *zap.SugaredLogger) *System {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	src := sources.complete()
	return &System{
		cpu:           snapshot.NewHandle(src.CPU),
		memory:        snapshot.NewHandle(src.Memory),
		memoryModules: snapshot.NewHandle(src.MemoryModules),
		interrupts:    snapshot.NewHandle(src.Interrupts),
		irq:           snapshot.NewHandle(src.IRQ),
		host:          snapshot.NewHandle(src.Host),
		network:       snapshot.NewSampler(src.Network, networkRates, clk),
		interruptRate: snapshot.NewSampler(src.Interrupts, interruptRates, clk),
		clock:         clk,
		logger:        logger,
	}
}

// Default reads the live host.
func Default(procRoot, sysRoot string, logger *zap.SugaredLogger) *System {
	return New(DefaultSources(procRoot, sysRoot), clock.Real(), logger)
}

// Clone returns a copy sharing every handle and sampler with s. It never
// runs a source.
func (s *System) Clone() *System {
	c := *s
	return &c
}

func (s *System) CPUInfo() (models.CPUInfo, error) {
	info, err := s.cpu.Get()
	if err != nil {
		return models.CPUInfo{}, err
	}
	return info.Clone(), nil
}

func (s *System) MemInfo() (models.MemInfo, error) {
	m, err := s.memory.Get()
	if err != nil {
		return models.MemInfo{}, err
	}
	return m.Clone(), nil
}

func (s *System) MemoryModules() ([]models.MemoryModule, error) {
	return cloned(s.memoryModules)
}

// Interrupts returns the interrupt table captured on first use. Use
// InterruptRate for live counts.
func (s *System) Interrupts() ([]models.InterruptDetails, error) {
	return cloned(s.interrupts)
}

func (s *System) IRQInfo() ([]models.IrqDetails, error) {
	return cloned(s.irq)
}

func (s *System) Host() (models.HostInfo, error) {
	return s.host.Get()
}

// cloned returns a deep copy of a cached slice so callers never write into
// the shared value.
func cloned[T interface{ Clone() T }](h *snapshot.Handle[[]T]) ([]T, error) {
	v, err := h.Get()
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	out := make([]T, len(v))
	for i, item := range v {
		out[i] = item.Clone()
	}
	return out, nil
}

// NetworkStat samples /proc/net/dev twice, d apart, and returns per-interface
// rates. It blocks for d unless ctx ends first.
func (s *System) NetworkStat(ctx context.Context, d time.Duration) (snapshot.Delta[[]models.NetworkRate], error) {
	return s.network.Sample(ctx, d)
}

// InterruptRate samples the interrupt table twice, d apart. The samples are
// taken directly from the source, never from the cached table.
func (s *System) InterruptRate(ctx context.Context, d time.Duration) (snapshot.Delta[[]models.InterruptRate], error) {
	return s.interruptRate.Sample(ctx, d)
}

// Refresh drops the cached value of a category so the next read recomputes
// it. Sampled categories hold no cache and are rejected.
func (s *System) Refresh(c Category) error {
	switch c {
	case CategoryCPU:
		s.cpu.Refresh()
	case CategoryMemory:
		s.memory.Refresh()
	case CategoryMemoryModules:
		s.memoryModules.Refresh()
	case CategoryInterrupts:
		s.interrupts.Refresh()
	case CategoryIRQ:
		s.irq.Refresh()
	case CategoryHost:
		s.host.Refresh()
	case CategoryNetwork, CategoryInterruptRate:
		return fmt.Errorf("%w: %s", internalerrors.ErrNotCached, c)
	default:
		return fmt.Errorf("%w: %q", internalerrors.ErrUnknownCategory, c)
	}
	s.logger.Debugw("category refreshed", "category", c)
	return nil
}

// Collect reads every category concurrently and samples the rate categories
// over d. A failing category is recorded in Report.Errors and does not stop
// the others. Collect fails only when d is invalid or ctx ends.
func (s *System) Collect(ctx context.Context, d time.Duration) (models.Report, error) {
	if d <= 0 {
		return models.Report{}, fmt.Errorf("%w: sample window must be positive, got %s", internalerrors.ErrMeasurement, d)
	}

	var (
		report models.Report
		mu     sync.Mutex
	)
	record := func(c Category, err error) {
		if err == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if report.Errors == nil {
			report.Errors = map[string]string{}
		}
		report.Errors[string(c)] = err.Error()
		s.logger.Debugw("category failed", "category", c, "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := s.Host()
		record(CategoryHost, err)
		report.Host = h
		return nil
	})
	g.Go(func() error {
		c, err := s.CPUInfo()
		record(CategoryCPU, err)
		report.CPU = c
		return nil
	})
	g.Go(func() error {
		m, err := s.MemInfo()
		record(CategoryMemory, err)
		report.Memory = m
		return nil
	})
	g.Go(func() error {
		m, err := s.MemoryModules()
		record(CategoryMemoryModules, err)
		report.MemoryModules = m
		return nil
	})
	g.Go(func() error {
		irq, err := s.IRQInfo()
		record(CategoryIRQ, err)
		report.IRQ = irq
		return nil
	})
	g.Go(func() error {
		delta, err := s.NetworkStat(gctx, d)
		if internalerrors.IsCancelled(err) {
			return err
		}
		record(CategoryNetwork, err)
		report.Network = delta.Fields
		return nil
	})
	g.Go(func() error {
		delta, err := s.InterruptRate(gctx, d)
		if internalerrors.IsCancelled(err) {
			return err
		}
		record(CategoryInterruptRate, err)
		report.Interrupts = delta.Fields
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.Report{}, err
	}

	report.CollectedAt = s.clock.Now()
	report.Window = d
	return report, nil
}
