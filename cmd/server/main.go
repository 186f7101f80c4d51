// Command server receives metric batches from agents, keeps their history
// and serves the query API for the host it runs on.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Schera-ole/hostmetrics/internal/clock"
	"github.com/Schera-ole/hostmetrics/internal/config"
	"github.com/Schera-ole/hostmetrics/internal/handler"
	"github.com/Schera-ole/hostmetrics/internal/logger"
	"github.com/Schera-ole/hostmetrics/internal/repository"
	"github.com/Schera-ole/hostmetrics/internal/service"
	"github.com/Schera-ole/hostmetrics/internal/system"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.LoadServer(args)
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
	metricService := service.NewMetricsService(repo, clk, log)
	persist := cfg.HistoryFile != "" && metricService.IsMemStorage()
	if persist {
		if err := metricService.RestoreSamples(ctx, cfg.HistoryFile); err != nil {
			return fmt.Errorf("restoring history: %w", err)
		}
		if cfg.StoreInterval > 0 {
			go saveHistory(ctx, metricService, clk, cfg.HistoryFile, cfg.StoreInterval, log)
		}
	}

	sys := system.Default(cfg.ProcRoot, cfg.SysRoot, log)
	server := &http.Server{
		Addr:    cfg.Address,
		Handler: handler.Router(sys, metricService, log, cfg.Key),
	}
	serverErr := make(chan error, 1)
	go func() {
		log.Infow("Starting server", "address", cfg.Address, "storage", cfg.Storage)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down...")
	case err := <-serverErr:
		return fmt.Errorf("listen: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server shutdown", "error", err)
	}
	if persist {
		if err := metricService.SaveSamples(shutdownCtx, cfg.HistoryFile); err != nil {
			return fmt.Errorf("saving history: %w", err)
		}
		log.Infow("history saved", "path", cfg.HistoryFile)
	}
	return nil
}

// saveHistory writes the memory history to path every interval until ctx
// is done.
func saveHistory(ctx context.Context, metricService *service.MetricsService, clk clock.Clock, path string, interval time.Duration, log *zap.SugaredLogger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-clk.After(interval):
		}
		if err := metricService.SaveSamples(ctx, path); err != nil {
			log.Errorw("saving history", "path", path, "error", err)
		}
	}
}
