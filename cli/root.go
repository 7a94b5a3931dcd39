// Package cli wires the keyloans commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"Gin_postgres_redis_key_loans/config"
	"Gin_postgres_redis_key_loans/logger"
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "keyloans",
		Short:        "Room key lending service",
		Long:         `keyloans records which room key is lent to whom, and when it comes back.`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newImportCommand(),
	)
	return root
}

// setup loads the configuration and initializes the logger.
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(cfg.Logger); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}
