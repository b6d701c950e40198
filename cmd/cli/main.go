package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/servicodocente/dsd/cmd/cli/commands"
	"github.com/servicodocente/dsd/internal/config"
	"github.com/servicodocente/dsd/pkg/clients/sheetsclient"
	"github.com/servicodocente/dsd/pkg/db"
	"github.com/servicodocente/dsd/pkg/postgres"
	"github.com/servicodocente/dsd/pkg/sheetssql"
	"github.com/servicodocente/dsd/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	app     = &commands.AppContext{Out: os.Stdout}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dsd",
		Short: "DSD - Verify teacher workload distribution",
		Long: `A CLI tool that checks teacher timetables against the workload rules,
computes the school's credit-hour budget and reconciles taught minutes with the curriculum.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Postgres != nil {
				app.Postgres.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.EvaluateCmd(app))
	rootCmd.AddCommand(commands.BudgetCmd(app))
	rootCmd.AddCommand(commands.CoverageCmd(app))
	rootCmd.AddCommand(commands.IssuesCmd(app))
	rootCmd.AddCommand(commands.RunsCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config and the configured data source
func initApp(cmd *cobra.Command) error {
	var err error
	app.Ctx = context.Background()
	app.Env = env

	// Initialize logger
	app.Logger, err = logging.InitLogger(env, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env), zap.String("command", cmd.Name()))

	// Load configuration
	app.Logger.Debug("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully", zap.String("source", app.Cfg.Source.Kind))

	switch app.Cfg.Source.Kind {
	case config.SourceSheets:
		return initSheets(commands.NeedsWrite(cmd))
	case config.SourcePostgres:
		return initPostgres()
	case config.SourceFile:
		app.Logger.Info("Reading dataset file", zap.String("path", app.Cfg.Source.DatasetPath))
		app.Reader = db.NewFileStore(app.Cfg.Source.DatasetPath)
		return nil
	}
	return fmt.Errorf("unsupported source kind %q", app.Cfg.Source.Kind)
}

func initSheets(write bool) error {
	app.Logger.Debug("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClientWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	app.Logger.Info("Initializing sheets client", zap.Bool("read_only", !write))
	app.SheetsClient, err = sheetsclient.NewClient(app.Ctx, oauthCfg, env, !write, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to create sheets client: %w", err)
	}

	schema, err := db.Schema()
	if err != nil {
		return fmt.Errorf("failed to create database schema: %w", err)
	}
	app.Logger.Debug("Database schema created", zap.Int("tables", len(schema.Tables)))

	app.Logger.Info("Connecting to spreadsheet", zap.String("spreadsheet_id", app.Cfg.Source.DatabaseSheetID))
	ssqlDB, err := sheetssql.NewDB(app.Ctx, app.SheetsClient, app.Cfg.Source.DatabaseSheetID, schema)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	database := db.NewDB(ssqlDB)
	app.Reader = database
	app.Runs = database
	return nil
}

func initPostgres() error {
	app.Logger.Info("Connecting to PostgreSQL")
	pg, err := postgres.NewDB(app.Ctx, app.Cfg.Source.PostgresURL)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}

	app.Postgres = pg
	app.Reader = pg
	app.Runs = pg
	return nil
}
