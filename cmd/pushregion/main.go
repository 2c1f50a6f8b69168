// Command pushregion is C6: seeds the task-queue with REGION#KEYWORD work
// items for a named region or the nationwide sentinel, per §4.5/§6.5.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/location-microservice/internal/config"
	"github.com/location-microservice/internal/pkg/logger"
	"github.com/location-microservice/internal/repository/coordination"
	"github.com/location-microservice/internal/usecase"
	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "push_region REGION KEYWORD",
		Short: "seed the task-queue with one or more REGION#KEYWORD tasks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, args[0], args[1])
		},
	}
	root.Flags().StringVar(&configPath, "config", "spider.conf", "path to the INI configuration file")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, region, keyword string) error {
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

	var cityFile *usecase.CityFile
	if cfg.Common.Mode == "grid" {
		if cfg.Common.CityFile == "" {
			return fmt.Errorf("grid mode requires common.city_file")
		}
		cityFile, err = usecase.LoadCityFile(cfg.Common.CityFile)
		if err != nil {
			return fmt.Errorf("load city file: %w", err)
		}
	}

	seeder := usecase.NewSeeder(coord, cfg, cityFile)
	n, err := seeder.Seed(context.Background(), region, keyword)
	if err != nil {
		return err
	}
	fmt.Printf("pushed %d task(s) for region %q\n", n, region)
	return nil
}
