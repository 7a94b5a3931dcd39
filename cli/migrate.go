package cli

import (
	"github.com/spf13/cobra"

	"Gin_postgres_redis_key_loans/db"
	"Gin_postgres_redis_key_loans/logger"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			conn, err := db.Connect(cfg.Database)
			if err != nil {
				return err
			}
			if sqlDB, err := conn.DB(); err == nil {
				defer sqlDB.Close()
			}
			if err := db.Migrate(conn); err != nil {
				return err
			}
			logger.Get().Info("schema up to date", "driver", cfg.Database.Driver)
			return nil
		},
	}
}
