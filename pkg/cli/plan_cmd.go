package cli

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/byronwade/fieldmigrate/internal/config"
	"github.com/byronwade/fieldmigrate/internal/domain"
	"github.com/byronwade/fieldmigrate/internal/source"
)

func newPlanCmd(getCfg func() *config.Config, getLogger func() *slog.Logger) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "plan <job.yaml>",
		Short: "Resolve field mappings for a job without migrating anything",
		Long:  "Samples each export file, resolves field mappings, and reports required target fields that no mapping covers.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := getCfg(), getLogger()

			spec, err := source.LoadJobSpec(args[0])
			if err != nil {
				return err
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

			plans, gaps, err := eng.svc.Plan(cmd.Context(), src, runOptions(cfg, spec))
			if err != nil {
				return err
			}

			if output == "json" {
				return printJSON(os.Stdout, planPayload(plans, gaps))
			}
			printPlanText(os.Stdout, plans, gaps)

			// Exit code 2 when the plan cannot run as-is (useful for CI).
			if len(gaps) > 0 {
				os.Exit(2)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, json)")
	return cmd
}

func planPayload(plans map[domain.EntityType][]domain.FieldMapping, gaps []*domain.PlanningError) map[string]any {
	errs := make([]string, 0, len(gaps))
	for _, g := range gaps {
		errs = append(errs, g.Error())
	}
	return map[string]any{
		"mappings":        plans,
		"planning_errors": errs,
	}
}

func printPlanText(w *os.File, plans map[domain.EntityType][]domain.FieldMapping, gaps []*domain.PlanningError) {
	types := make([]domain.EntityType, 0, len(plans))
	for et := range plans {
		types = append(types, et)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	for _, et := range types {
		fmt.Fprintf(w, "%s:\n", et)
		for _, m := range plans[et] {
			target := m.TargetField
			if m.Transformation == domain.TransformSplit {
				target = joinStrings(m.Params.Parts)
			}
			fmt.Fprintf(w, "  %-28s -> %-28s %-8s (%.2f)\n",
				m.SourceField, target, m.Transformation, m.Confidence)
		}
	}

	if len(gaps) > 0 {
		fmt.Fprintf(w, "\n%d planning error(s):\n", len(gaps))
		for _, g := range gaps {
			fmt.Fprintf(w, "  - %s\n", g.Error())
		}
	}
}
