package cli

import (
	"log/slog"
	"os"

	"pizzashop/internal/config"
	"pizzashop/internal/logger"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

const serviceName = "pizzashop"

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "pizzashop",
		Short:         "Pizza order placement and retrieval service",
		Long:          "pizzashop takes pizza orders over HTTP, stores them with their customers and items, and serves consolidated order details.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (env PIZZASHOP_* overrides it)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd(&configPath))
	cmd.AddCommand(newMigrateCmd(&configPath))
	cmd.AddCommand(newSeedCmd(&configPath))
	return cmd
}

// Execute runs the root command.
func Execute() error {
	err := newRootCmd().Execute()
	if err != nil {
		slog.Error("command failed", "error", err)
	}
	return err
}

// loadRuntime loads the config and builds the process logger.
func loadRuntime(configPath string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(serviceName, cfg.Log.Level, os.Stdout), nil
}
