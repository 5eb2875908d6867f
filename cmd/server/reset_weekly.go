package main

import (
	"errors"
	"fmt"

	"civic-commons/townhall/internal/config"
	"civic-commons/townhall/internal/db"
	"civic-commons/townhall/internal/db/repositories"
	"civic-commons/townhall/internal/jobs"
	"civic-commons/townhall/internal/metrics"
	"civic-commons/townhall/internal/services"

	"github.com/spf13/cobra"
)

func resetWeeklyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-weekly",
		Short: "Zero weekly points if a week has passed since the last reset",
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

			m := metrics.NewMetricsRegistry()
			job := jobs.NewWeeklyResetJob(services.NewWeeklyResetService(repositories.NewStore(orm), m), m)
			res, err := job.Run(cmd.Context())
			if err != nil {
				return err
			}
			if res.Reset {
				fmt.Fprintf(cmd.OutOrStdout(), "weekly points reset for %d users\n", res.UsersReset)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "weekly reset not due yet")
			}
			return nil
		},
	}
}
