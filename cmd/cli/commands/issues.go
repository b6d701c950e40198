package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/servicodocente/dsd/pkg/core/services"
)

// IssuesCmd creates the issues command
func IssuesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "issues",
		Short: "List data-quality problems in the input tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := app.Options()
			if err != nil {
				return err
			}

			result, err := services.Run(app.Ctx, app.Reader, opts, app.Logger)
			if err != nil {
				return err
			}

			fmt.Fprintln(app.Out)
			writeIssues(app.Out, result.Issues)
			return nil
		},
	}
}
