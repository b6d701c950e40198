package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/servicodocente/dsd/pkg/core/services"
	"github.com/servicodocente/dsd/pkg/db"
	"github.com/servicodocente/dsd/pkg/report"
)

// EvaluateCmd creates the evaluate command
func EvaluateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Check every teacher's timetable against the workload rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			xlsxPath, _ := cmd.Flags().GetString("xlsx")
			save, _ := cmd.Flags().GetBool("save")

			if save && app.Runs == nil {
				return db.ErrRunsNotSupported
			}

			opts, err := app.Options()
			if err != nil {
				return err
			}

			result, err := services.Run(app.Ctx, app.Reader, opts, app.Logger)
			if err != nil {
				return err
			}

			fmt.Fprintln(app.Out)
			writeTeachers(app.Out, result)

			if xlsxPath != "" {
				if err := report.WriteFile(xlsxPath, result); err != nil {
					return err
				}
				app.Logger.Info("Workbook written", zap.String("path", xlsxPath))
				fmt.Fprintf(app.Out, "\n✓ Workbook written to %s\n", xlsxPath)
			}

			if save {
				run, err := services.SaveRun(app.Ctx, app.Runs, result, app.Cfg.Source.Kind, app.Logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(app.Out, "\n✓ Run saved with ID %s\n", run.ID)
			}

			return nil
		},
	}

	cmd.Flags().String("xlsx", "", "Also write the report to this xlsx file")
	cmd.Flags().Bool("save", false, "Store the run in the data source")

	return cmd
}
