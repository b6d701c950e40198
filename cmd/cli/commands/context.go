package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/servicodocente/dsd/internal/config"
	"github.com/servicodocente/dsd/pkg/clients/sheetsclient"
	"github.com/servicodocente/dsd/pkg/core/coverage"
	"github.com/servicodocente/dsd/pkg/core/services"
	"github.com/servicodocente/dsd/pkg/db"
	"github.com/servicodocente/dsd/pkg/postgres"
)

// writeAnnotation marks commands that write to the data source
const writeAnnotation = "writes"

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env          string
	Cfg          *config.Config
	SheetsClient *sheetsclient.Client
	// Postgres is set when the source is PostgreSQL
	Postgres *postgres.DB
	Reader   db.Reader
	// Runs is nil when the source cannot store evaluation runs
	Runs   db.RunStore
	Logger *zap.Logger
	Ctx    context.Context
	Out    io.Writer
}

// Options builds the evaluation options from the loaded configuration
func (app *AppContext) Options() (services.Options, error) {
	calc, err := app.Cfg.Calculator()
	if err != nil {
		return services.Options{}, err
	}

	return services.Options{
		Policy:     app.Cfg.Policy.RulesPolicy(),
		Calculator: calc,
		Coverage:   coverage.Options{IncludeMissing: app.Cfg.Coverage.IncludeMissing},
		Workers:    app.Cfg.Evaluation.Workers,
	}, nil
}

// NeedsWrite reports whether a command invocation writes to the data source
func NeedsWrite(cmd *cobra.Command) bool {
	if cmd.Annotations[writeAnnotation] == "true" {
		return true
	}
	save := cmd.Flags().Lookup("save")
	return save != nil && save.Changed
}
