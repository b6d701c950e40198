package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/servicodocente/dsd/pkg/core/coverage"
	"github.com/servicodocente/dsd/pkg/core/services"
)

// CoverageCmd creates the coverage command
func CoverageCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Reconcile taught minutes with the curriculum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := coverage.Options{IncludeMissing: app.Cfg.Coverage.IncludeMissing}
			if cmd.Flags().Changed("missing") {
				opts.IncludeMissing, _ = cmd.Flags().GetBool("missing")
			}

			ds, _, err := services.LoadDataset(app.Ctx, app.Reader, app.Logger)
			if err != nil {
				return err
			}

			rows := coverage.Reconcile(ds.Blocks, ds.Classes, ds.Requirements, opts)

			fmt.Fprintln(app.Out)
			writeCoverage(app.Out, rows)
			return nil
		},
	}

	cmd.Flags().Bool("missing", false, "List required subjects nobody teaches")

	return cmd
}
