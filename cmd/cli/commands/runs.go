package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/servicodocente/dsd/pkg/core/services"
	"github.com/servicodocente/dsd/pkg/db"
)

// RunsCmd creates the runs command
func RunsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List stored evaluation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Runs == nil {
				return db.ErrRunsNotSupported
			}

			runs, err := services.ListRuns(app.Ctx, app.Runs, app.Logger)
			if err != nil {
				return err
			}

			fmt.Fprintln(app.Out)
			writeRuns(app.Out, runs)
			return nil
		},
	}
}
