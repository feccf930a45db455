package main

import (
	"context"
	"fmt"

	"booklog-backend/infrastructure/config"
	"booklog-backend/infrastructure/di"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	brand  = color.New(color.FgHiMagenta, color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "booklogctl",
		Short:         "Operate the family book log",
		Long:          brand.Sprint("booklogctl") + " manages the book log store and renders its graph and challenge",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (environment variables still apply)")
	root.AddCommand(migrateCmd(), statsCmd(), renderCmd(), serveCmd())
	return root
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.LoadConfig()
}

// withContainer builds the application container for the duration of fn
func withContainer(ctx context.Context, fn func(*di.Container) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	container, cleanup, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer cleanup()
	defer container.Logger.Sync() //nolint:errcheck
	return fn(container)
}
