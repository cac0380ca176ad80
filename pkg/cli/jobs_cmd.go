package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/byronwade/fieldmigrate/internal/config"
	"github.com/byronwade/fieldmigrate/internal/db"
	"github.com/byronwade/fieldmigrate/internal/db/repository"
)

func newJobsCmd(getCfg func() *config.Config) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "jobs [job-id]",
		Short: "List past migration jobs or show one report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := db.OpenSQLite(getCfg().MetaDBPath)
			if err != nil {
				return err
			}
			defer pool.Close() //nolint:errcheck
			if err := db.RunMigrations(pool); err != nil {
				return err
			}
			jobs := repository.NewJobRepo(pool)

			if len(args) == 1 {
				report, err := jobs.GetReport(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if output == "json" {
					return printJSON(os.Stdout, report)
				}
				printReportText(os.Stdout, report)
				return nil
			}

			summaries, err := jobs.ListJobs(cmd.Context())
			if err != nil {
				return err
			}
			if output == "json" {
				return printJSON(os.Stdout, summaries)
			}
			for _, s := range summaries {
				dry := ""
				if s.DryRun {
					dry = " (dry run)"
				}
				fmt.Printf("%s  %-16s %s%s\n",
					s.StartedAt.Format("2006-01-02 15:04:05"), s.Status, s.JobID, dry)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, json)")
	return cmd
}
