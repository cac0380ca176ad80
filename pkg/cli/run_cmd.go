package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/byronwade/fieldmigrate/internal/config"
	"github.com/byronwade/fieldmigrate/internal/domain"
	"github.com/byronwade/fieldmigrate/internal/source"
)

func newRunCmd(getCfg func() *config.Config, getLogger func() *slog.Logger) *cobra.Command {
	var (
		output string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "run <job.yaml>",
		Short: "Run a migration job",
		Long:  "Plans and executes a migration job, writes canonical records, and prints the final report.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := getCfg(), getLogger()

			spec, err := source.LoadJobSpec(args[0])
			if err != nil {
				return err
			}
			if dryRun {
				spec.DryRun = true
			}
			src, err := buildSource(cfg, spec)
			if err != nil {
				return err
			}

			eng, err := buildEngine(cfg, logger)
			if err != nil {
				return err
			}
			defer eng.Close() //nolint:errcheck

			report, err := eng.svc.Run(cmd.Context(), src, runOptions(cfg, spec))
			if err != nil {
				return err
			}

			if saveErr := eng.jobs.SaveReport(cmd.Context(), report); saveErr != nil {
				logger.Warn("could not save report", "job_id", report.JobID, "error", saveErr)
			}

			if output == "json" {
				if err := printJSON(os.Stdout, report); err != nil {
					return err
				}
			} else {
				printReportText(os.Stdout, report)
			}

			if report.Status == domain.JobStatusFailedPlanning {
				os.Exit(1)
			}
			// Exit code 3 signals a completed run with failed records.
			if report.TotalFailed() > 0 {
				os.Exit(3)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, json)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Process everything but skip repository writes")
	return cmd
}

func printReportText(w *os.File, report *domain.Report) {
	fmt.Fprintf(w, "job %s: %s", report.JobID, report.Status)
	if report.DryRun {
		fmt.Fprint(w, " (dry run)")
	}
	fmt.Fprintf(w, " in %s\n", report.FinishedAt.Sub(report.StartedAt).Round(timeRounding))

	if report.Status == domain.JobStatusFailedPlanning {
		for _, msg := range report.PlanningErrors {
			fmt.Fprintf(w, "  planning: %s\n", msg)
		}
		return
	}

	for _, et := range domain.AllEntityTypes() {
		er, ok := report.Entities[et]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %-12s success=%d partial=%d failed=%d\n",
			et, er.Success, er.Partial, er.Failed)
		for _, f := range er.FailedRecords {
			fmt.Fprintf(w, "    row %d (%s): %s\n",
				f.SourceRowIndex, f.ExternalID, joinStrings(f.Reasons))
		}
	}
}
