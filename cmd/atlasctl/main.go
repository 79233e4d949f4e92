// Command atlasctl browses and edits the staff directory from the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/UnknownOlympus/atlas/internal/config"
	"github.com/UnknownOlympus/atlas/internal/directory"
	"github.com/UnknownOlympus/atlas/internal/logger"
	"github.com/UnknownOlympus/atlas/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	log := logger.New(cfg.Env, os.Stderr)

	// the CLI is short-lived, its metrics are never scraped
	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())

	connect := func() (*directory.Client, error) {
		mode, err := directory.ParseFetchMode(cfg.API.FetchMode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse fetch mode: %w", err)
		}

		return directory.NewClient(log, appMetrics, cfg.API.BaseURL,
			directory.WithTimeout(cfg.API.Timeout),
			directory.WithFetchMode(mode),
		)
	}

	if err := newRootCmd(connect, appMetrics).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
