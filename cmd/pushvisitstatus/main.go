// Command pushvisitstatus is C10: rehydrates the visited-set from the
// downstream store's uid column, per §4.8/§6.5.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/location-microservice/internal/config"
	"github.com/location-microservice/internal/pkg/logger"
	"github.com/location-microservice/internal/repository/coordination"
	"github.com/location-microservice/internal/repository/store"
	"github.com/location-microservice/internal/usecase"
	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "push_visit_status",
		Short: "rehydrate the visited-set from the downstream store",
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
		return fmt.Errorf("connect coordination store: %w", err)
	}
	defer coord.Close()

	poiStore, err := store.New(&cfg.Store, cfg.GetStoreDSN(), log)
	if err != nil {
		return fmt.Errorf("connect store: %w", err)
	}
	defer poiStore.Close()

	rehydrator := usecase.NewRehydrator(coord, poiStore)
	total, err := rehydrator.Run(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("rehydrated %d uid(s) into the visited-set\n", total)
	return nil
}
