package main

import (
	"fmt"
	"log"
	"os"

	"civic-commons/townhall/internal/config"
	"civic-commons/townhall/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

const programName = "townhall"

var configFile string

func commonRun(cfg *config.Config) error {
	if err := logging.Init(cfg.AppEnv); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, v ...any) {
		logging.Info(fmt.Sprintf(format, v...), "component", programName)
	})); err != nil {
		logging.Warn("Failed to set GOMAXPROCS", "error", err)
	}
	return nil
}

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	rootCmd := &cobra.Command{
		Use:          programName,
		Short:        "Community issue reporting and civic points service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd.Context(), config.FromContext(cmd.Context()))
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// A missing .env is normal outside local development.
		_ = godotenv.Load()

		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := commonRun(cfg); err != nil {
			return err
		}
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		_ = logging.Close()
	}

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(migrateCommand())
	rootCmd.AddCommand(resetWeeklyCommand())

	if err := rootCmd.Execute(); err != nil {
		// cobra has already printed the error
		os.Exit(1)
	}
}
