// Package cli implements bilemoctl, the administration tool for database
// migrations and demonstration fixtures.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bilemo/api/internal/application/fixtures"
	"github.com/bilemo/api/internal/infrastructure/config"
	"github.com/bilemo/api/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Migrator is the subset of migration.Migrator the migrate commands drive
type Migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(version int) error
	Close() error
}

// Seeder loads fixtures into the configured database
type Seeder interface {
	Seed(ctx context.Context, opts fixtures.Options) (*fixtures.Summary, error)
	Close() error
}

// App carries the dependencies shared by every command. Tests replace the
// constructors to run commands without a database.
type App struct {
	LoadConfig   func() (*config.Config, error)
	OpenMigrator func(ctx context.Context, cfg *config.Config, log *zap.Logger) (Migrator, error)
	OpenSeeder   func(ctx context.Context, cfg *config.Config, log *zap.Logger) (Seeder, error)
	Logger       *zap.Logger

	logLevel      string
	migrationsDir string
}

// NewApp returns an App wired to PostgreSQL
func NewApp() *App {
	return &App{
		LoadConfig:   config.Load,
		OpenMigrator: openPostgresMigrator,
		OpenSeeder:   openSeeder,
	}
}

// Command builds the bilemoctl command tree
func (a *App) Command() *cobra.Command {
	root := &cobra.Command{
		Use:           "bilemoctl",
		Short:         "BileMo API administration",
		Long:          "Apply database migrations and load demonstration fixtures for the BileMo API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if a.Logger != nil {
				return nil
			}
			log, err := logger.New(&logger.Config{
				Level:      a.logLevel,
				Format:     "console",
				Output:     "stdout",
				TimeFormat: "2006-01-02 15:04:05",
			})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.Logger = log
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	root.AddCommand(a.migrateCommand())
	root.AddCommand(a.seedCommand())
	return root
}

// Execute runs bilemoctl with the process arguments and returns the exit code
func Execute() int {
	app := NewApp()
	cmd := app.Command()
	err := cmd.Execute()
	if app.Logger != nil {
		_ = app.Logger.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func (a *App) config() (*config.Config, error) {
	cfg, err := a.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
