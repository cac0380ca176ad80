package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/byronwade/fieldmigrate/internal/domain"
)

func newSchemaCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "schema [entity-type]",
		Short: "Print the canonical target schema",
		Long:  "Prints the canonical target schema for one entity type, or all of them.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			types := domain.AllEntityTypes()
			if len(args) == 1 {
				if !domain.IsValidEntityType(args[0]) {
					return domain.ErrValidation("unknown entity type %q", args[0])
				}
				types = []domain.EntityType{domain.EntityType(args[0])}
			}

			if output == "json" {
				payload := make(map[domain.EntityType][]domain.SchemaField, len(types))
				for _, et := range types {
					payload[et] = domain.TargetSchema(et)
				}
				return printJSON(os.Stdout, payload)
			}

			for _, et := range types {
				fmt.Printf("%s:\n", et)
				for _, f := range domain.TargetSchema(et) {
					required := ""
					if f.Required {
						required = " (required)"
					}
					fmt.Printf("  %-18s %-8s%s  %s\n", f.Name, f.Type, required, f.Description)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, json)")
	return cmd
}
