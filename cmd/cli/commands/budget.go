package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/servicodocente/dsd/pkg/core/services"
)

// BudgetCmd creates the budget command
func BudgetCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "budget",
		Short: "Compute the school's credit-hour budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, err := app.Cfg.Calculator()
			if err != nil {
				return err
			}

			ds, _, err := services.LoadDataset(app.Ctx, app.Reader, app.Logger)
			if err != nil {
				return err
			}

			budget, err := calc.Budget(len(ds.Classes), ds.Teachers, ds.Roles)
			if err != nil {
				return fmt.Errorf("failed to compute credit budget: %w", err)
			}

			if app.Cfg.School.Name != "" {
				fmt.Fprintf(app.Out, "\n%s\n", app.Cfg.School.Name)
			}
			fmt.Fprintln(app.Out)
			writeBudget(app.Out, budget)
			return nil
		},
	}
}
