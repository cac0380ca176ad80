// Package cli implements the fieldmigrate command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/byronwade/fieldmigrate/internal/config"
)

var version = "dev"

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		envFile string
		cfg     *config.Config
		logger  *slog.Logger
	)

	rootCmd := &cobra.Command{
		Use:           "fieldmigrate",
		Short:         "Field-service CRM migration engine",
		Long:          "Migrates competitor CRM exports into the canonical field-service schema.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(envFile); err != nil {
				return err
			}
			var err error
			cfg, err = config.LoadFromEnv()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: cfg.SlogLevel(),
			}))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to an optional .env file")

	getCfg := func() *config.Config { return cfg }
	getLogger := func() *slog.Logger { return logger }

	rootCmd.AddCommand(
		newPlanCmd(getCfg, getLogger),
		newRunCmd(getCfg, getLogger),
		newSchemaCmd(),
		newJobsCmd(getCfg),
	)
	return rootCmd
}
