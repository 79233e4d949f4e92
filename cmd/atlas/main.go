package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/atlas/internal/api"
	"github.com/UnknownOlympus/atlas/internal/config"
	"github.com/UnknownOlympus/atlas/internal/logger"
	"github.com/UnknownOlympus/atlas/internal/metrics"
	"github.com/UnknownOlympus/atlas/internal/repository"
	"github.com/UnknownOlympus/atlas/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 10 * time.Second

// main is the entry point of the directory service.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	log := logger.New(cfg.Env, os.Stdout)

	// Create a separate registry for metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Initialize the database connection.
	dtb, err := repository.NewDatabase(ctx, cfg.Database)
	if err != nil {
		fatal("Failed to connect to DB: %v", err)
	}
	defer dtb.Close()

	repo := repository.NewRepository(dtb)
	if err = repo.EnsureSchema(ctx); err != nil {
		dtb.Close()
		fatal("Failed to prepare database schema: %v", err)
	}

	app := api.NewApp(log, api.NewHandler(log, repo, appMetrics), appMetrics)

	// Start the monitoring server
	go server.StartMonitoringServer(ctx, log, reg, dtb, cfg.Server.MonitoringPort)

	serveErr := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "Directory API started", "addr", cfg.Server.ListenAddr)
		serveErr <- app.Listen(cfg.Server.ListenAddr)
	}()

	select {
	case <-ctx.Done():
		log.InfoContext(ctx, "Shutdown signal received. Stopping application...")
	case err = <-serveErr:
		log.ErrorContext(ctx, "Directory API failed", "error", err)
	}

	if err = app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.ErrorContext(ctx, "Directory API failed to shutdown", "error", err)
	}

	// Log graceful shutdown completion.
	log.InfoContext(ctx, "Application stopped gracefully.")
}

func fatal(format string, args ...any) {
	log.Printf(format, args...)
	os.Exit(1)
}
