package main

import (
	"fmt"
	"os"

	"marketplace/internal/config"
	"marketplace/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "marketplace",
		Short:         "Multivendor marketplace dashboard API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile == "" {
				return nil
			}
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("failed to load env file %s: %w", envFile, err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment variables from this file before reading config")

	root.AddCommand(newServeCommand(), newMigrateCommand())
	return root
}

// bootstrap loads configuration and builds the logger every command shares
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}
