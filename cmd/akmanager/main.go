// Command akmanager is C5: it (re)seeds the AK-set and reports on its
// contents, per §4.8/§6.5. Intended to run daily from a scheduler.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/location-microservice/internal/config"
	"github.com/location-microservice/internal/pkg/logger"
	"github.com/location-microservice/internal/repository/coordination"
	"github.com/location-microservice/internal/usecase"
	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "akmanager [0|1|2]",
		Short: "reset (0), count (1), or list (2) the AK-set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, args[0])
		},
	}
	root.Flags().StringVar(&configPath, "config", "spider.conf", "path to the INI configuration file")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, action string) error {
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

	manager := usecase.NewCredentialManager(coord, cfg.Common.DataSource)
	ctx := context.Background()

	switch action {
	case "0":
		n, err := manager.Reset(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("AK-set reset with %d credentials\n", n)
	case "1":
		count, err := manager.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("AK-set cardinality: %d\n", count)
	case "2":
		aks, err := manager.List(ctx)
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(aks, "\n"))
	default:
		return fmt.Errorf("unknown action %q, expected 0, 1 or 2", action)
	}
	return nil
}
