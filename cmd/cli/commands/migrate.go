package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:         "migrate",
		Short:       "Apply pending PostgreSQL migrations",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{writeAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Postgres == nil {
				return errors.New("migrate requires source.kind: postgres")
			}

			applied, err := app.Postgres.RunMigrations(app.Ctx, app.Logger)
			if err != nil {
				return err
			}

			if len(applied) == 0 {
				fmt.Fprintln(app.Out, "Database is up to date.")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(app.Out, "✓ %s\n", name)
			}
			return nil
		},
	}
}
