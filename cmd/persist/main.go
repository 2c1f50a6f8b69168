// Command persist runs the persistence worker (C8), draining the
// result-queue into the downstream store, per §6.5.
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
	"github.com/location-microservice/internal/repository/store"
	"github.com/location-microservice/internal/usecase"
	"github.com/location-microservice/internal/worker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "persist",
		Short: "drain the result queue into the downstream store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	root.Flags().StringVar(&configPath, "config", "spider.conf", "path to the INI configuration file")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
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

	dsn := cfg.GetStoreDSN()
	storeCfg := cfg.Store
	newStore := func() (domainrepo.PoiStore, error) {
		return store.New(&storeCfg, dsn, log)
	}

	persistWorker := usecase.NewPersistWorker(coord, newStore, log)

	metrics.Serve(cfg.Common.MetricsAddr)

	manager := worker.NewWorkerManager(log)
	manager.Register(persistWorker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := manager.Start(ctx); err != nil {
		log.Fatal("failed to start persistence worker", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info("received shutdown signal")

	cancel()
	if err := manager.Stop(); err != nil {
		log.Error("error stopping persistence worker", zap.Error(err))
	}
	return nil
}
