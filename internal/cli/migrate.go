package cli

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/bilemo/api/internal/infrastructure/config"
	"github.com/bilemo/api/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "migrations"

func (a *App) migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.PersistentFlags().StringVar(&a.migrationsDir, "path", defaultMigrationsDir, "Migrations directory used by create and list")

	cmd.AddCommand(
		a.withMigrator("up", "Apply all pending migrations", cobra.NoArgs,
			func(m Migrator, _ *cobra.Command, _ []string) error { return m.Up() }),
		a.withMigrator("down", "Roll back all migrations", cobra.NoArgs,
			func(m Migrator, _ *cobra.Command, _ []string) error { return m.Down() }),
		a.withMigrator("steps <n>", "Apply n migrations, rolling back when n is negative", cobra.ExactArgs(1),
			func(m Migrator, _ *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil || n == 0 {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				return m.Steps(n)
			}),
		a.withMigrator("version", "Show the current migration version", cobra.NoArgs,
			func(m Migrator, cmd *cobra.Command, _ []string) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				if version == 0 {
					printf(cmd.OutOrStdout(), "no migrations applied\n")
					return nil
				}
				printf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
				return nil
			}),
		a.withMigrator("force <version>", "Set the migration version without running migrations", cobra.ExactArgs(1),
			func(m Migrator, _ *cobra.Command, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil || version < -1 {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return m.Force(version)
			}),
		a.createMigrationCommand(),
		a.listMigrationsCommand(),
	)
	return cmd
}

// withMigrator builds a subcommand that opens a migrator, runs fn and closes it
func (a *App) withMigrator(use, short string, args cobra.PositionalArgs, fn func(Migrator, *cobra.Command, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			m, err := a.OpenMigrator(ctx, cfg, a.Logger)
			cancel()
			if err != nil {
				return err
			}
			defer func() {
				if err := m.Close(); err != nil {
					a.Logger.Error("Failed to close migrator", zap.Error(err))
				}
			}()

			return fn(m, cmd, args)
		},
	}
}

func (a *App) createMigrationCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty up/down migration pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(a.migrationsDir)
			if err != nil {
				return fmt.Errorf("failed to resolve migrations directory: %w", err)
			}
			mf, err := migration.CreateMigration(dir, args[0])
			if err != nil {
				return err
			}
			a.Logger.Info("Migration created",
				zap.String("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
			printf(cmd.OutOrStdout(), "%s\n%s\n", mf.UpPath, mf.DownPath)
			return nil
		},
	}
}

func (a *App) listMigrationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the migrations found in the migrations directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := migration.ListMigrations(a.migrationsDir)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printf(cmd.OutOrStdout(), "no migrations in %s\n", a.migrationsDir)
				return nil
			}
			for _, name := range names {
				printf(cmd.OutOrStdout(), "%s\n", name)
			}
			return nil
		},
	}
}

// openPostgresMigrator connects with lib/pq and runs the embedded migrations.
// Closing the migrator closes the connection.
func openPostgresMigrator(ctx context.Context, cfg *config.Config, log *zap.Logger) (Migrator, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	m, err := migration.New(db, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}
