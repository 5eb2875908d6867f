package main

import (
	"errors"

	"civic-commons/townhall/internal/config"
	"civic-commons/townhall/internal/db"
	"civic-commons/townhall/internal/logging"

	"github.com/spf13/cobra"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				return errors.New("no config found in context")
			}
			orm, err := db.InitORM(cfg)
			if err != nil {
				return err
			}
			if err := db.Migrate(orm); err != nil {
				return err
			}
			logging.Info("Migrations applied", "driver", cfg.DBDriver)
			return nil
		},
	}
}
