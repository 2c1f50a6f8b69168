// Command spider launches N crawler workers (C7) against the shared
// coordination store, per §6.5.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/location-microservice/internal/config"
	domainrepo "github.com/location-microservice/internal/domain/repository"
	"github.com/location-microservice/internal/pkg/logger"
	"github.com/location-microservice/internal/pkg/metrics"
	"github.com/location-microservice/internal/repository/coordination"
	"github.com/location-microservice/internal/upstream"
	"github.com/location-microservice/internal/usecase"
	"github.com/location-microservice/internal/worker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultWorkerCount = 10

func main() {
	var configPath string
	var workerCount int

	root := &cobra.Command{
		Use:   "spider",
		Short: "launch crawler workers against the configured data source",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, workerCount)
		},
	}
	root.Flags().StringVar(&configPath, "config", "spider.conf", "path to the INI configuration file")
	root.Flags().IntVar(&workerCount, "workers", defaultWorkerCount, "number of concurrent crawler workers")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, workerCount int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New("info")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	coord, err := coordination.New(&cfg.Redis, log)
	if err != nil {
		log.Fatal("failed to connect to coordination store", zap.Error(err))
	}
	defer coord.Close()

	source, upstreamClient, err := newUpstreamClient(cfg, log)
	if err != nil {
		log.Fatal("failed to build upstream client", zap.Error(err))
	}

	metrics.Serve(cfg.Common.MetricsAddr)

	manager := worker.NewWorkerManager(log)
	for i := 0; i < workerCount; i++ {
		name := fmt.Sprintf("spider-%d", i)
		w := usecase.NewCrawlerWorker(name, coord, upstreamClient, source, cfg.Category, cfg.Common.Update, log)
		manager.Register(w)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := manager.Start(ctx); err != nil {
		log.Fatal("failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info("received shutdown signal")

	cancel()
	if err := manager.Stop(); err != nil {
		log.Error("error stopping workers", zap.Error(err))
	}
	return nil
}

func newUpstreamClient(cfg *config.Config, log *zap.Logger) (usecase.Source, domainrepo.UpstreamClient, error) {
	switch cfg.Common.DataSource {
	case "baidu":
		client, err := upstream.NewBaidu(&cfg.Common, log)
		return usecase.SourceBaidu, client, err
	case "gaode":
		client, err := upstream.NewGaode(&cfg.Common, log)
		return usecase.SourceGaode, client, err
	default:
		return "", nil, fmt.Errorf("unknown data_source %q", cfg.Common.DataSource)
	}
}
