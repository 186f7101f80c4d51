// Command agent collects host metrics on a schedule, keeps their history,
// forwards report events and serves the query API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Schera-ole/hostmetrics/internal/agent"
	"github.com/Schera-ole/hostmetrics/internal/clock"
	"github.com/Schera-ole/hostmetrics/internal/config"
	"github.com/Schera-ole/hostmetrics/internal/handler"
	"github.com/Schera-ole/hostmetrics/internal/logger"
	models "github.com/Schera-ole/hostmetrics/internal/model"
	"github.com/Schera-ole/hostmetrics/internal/report"
	"github.com/Schera-ole/hostmetrics/internal/repository"
	"github.com/Schera-ole/hostmetrics/internal/service"
	"github.com/Schera-ole/hostmetrics/internal/system"
)

const (
	eventBuffer     = 20
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "agent:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.LoadAgent(args)
	if err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	repo, err := repository.Open(cfg.Storage, cfg.DatabaseDSN, cfg.HistoryLimit, log)
	if err != nil {
		return err
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := clock.Real()
	agentID := uuid.NewString()
	sys := system.Default(cfg.ProcRoot, cfg.SysRoot, log)
	metricService := service.NewMetricsService(repo, clk, log)

	events, subscribers := startSubscribers(cfg, clk, log)
	var publisher report.Publisher
	if events != nil {
		publisher = report.NewPublisher(agentID, events, clk, log)
	}

	a := agent.New(sys, metricService, publisher, clk, log, agent.Options{
		Interval: cfg.PollInterval,
		Window:   cfg.SampleWindow,
		Workers:  cfg.RateLimit,
	})

	server := &http.Server{
		Addr:    cfg.Address,
		Handler: handler.Router(sys.Clone(), metricService, log, cfg.Key),
	}
	serverErr := make(chan error, 1)
	go func() {
		log.Infow("query API listening", "address", cfg.Address, "agent_id", agentID)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	agentDone := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(agentDone)
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down...")
	case err := <-serverErr:
		stop()
		<-agentDone
		return fmt.Errorf("query API: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("query API shutdown", "error", err)
	}
	<-agentDone
	if events != nil {
		close(events)
		<-subscribers
	}
	return nil
}

// startSubscribers wires the report broadcaster to the configured file and
// URL subscribers. It returns a nil channel when neither is configured;
// done closes once every subscriber has drained.
func startSubscribers(cfg *config.AgentConfig, clk clock.Clock, log *zap.SugaredLogger) (chan models.ReportEvent, <-chan struct{}) {
	var (
		subs    []chan<- models.ReportEvent
		workers []func()
	)
	if cfg.ReportFile != "" {
		ch := make(chan models.ReportEvent, eventBuffer)
		subs = append(subs, ch)
		workers = append(workers, func() { report.FileSubscriber(ch, cfg.ReportFile, log) })
	}
	if cfg.ReportURL != "" {
		ch := make(chan models.ReportEvent, eventBuffer)
		sender := agent.NewSender(&http.Client{Timeout: shutdownTimeout}, cfg.ReportURL, cfg.Key, clk, log)
		subs = append(subs, ch)
		workers = append(workers, func() { report.URLSubscriber(ch, sender.Send, log) })
	}
	if len(subs) == 0 {
		return nil, nil
	}

	events := make(chan models.ReportEvent, eventBuffer)
	var wg sync.WaitGroup
	for _, w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w()
		}()
	}
	go report.Broadcaster(log, events, subs...)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	return events, done
}
