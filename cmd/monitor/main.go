// Command monitor is C9: a one-shot print of the four shared collections'
// sizes, per §4.8/§6.5.
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
		Use:   "monitor",
		Short: "print the sizes of the AK-set, task-queue, result-queue and visited-set",
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

	sizes, err := usecase.NewMonitor(coord).Report(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("AK-set:       %d\n", sizes.Credentials)
	fmt.Printf("task-queue:   %d\n", sizes.TaskQueue)
	fmt.Printf("result-queue: %d\n", sizes.ResultQueue)
	fmt.Printf("visited-set:  %d\n", sizes.Visited)
	return nil
}
