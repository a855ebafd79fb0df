package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/contentgen/backend/internal/infrastructure/config"
	"github.com/contentgen/backend/internal/infrastructure/logger"
	"github.com/contentgen/backend/internal/infrastructure/migration"
)

const defaultMigrationsPath = "migrations"

// errUnsupportedDriver is returned for schema commands on a non-postgres database
var errUnsupportedDriver = errors.New("versioned migrations require the postgres driver")

// dbLoader returns the database settings used by schema commands
type dbLoader func() (*config.DatabaseConfig, error)

func loadDatabase() (*config.DatabaseConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &cfg.Database, nil
}

type migrateCLI struct {
	load     dbLoader
	path     string
	logLevel string
	log      *zap.Logger
}

func newRootCmd(load dbLoader) *cobra.Command {
	c := &migrateCLI{load: load}

	root := &cobra.Command{
		Use:   "migrate",
		Short: "Content Gen database migration tool",
		Long: `migrate applies the SQL files in migrations/ to the configured postgres
database. Connection settings come from config.toml and CG_DATABASE_*
variables (CG_DATABASE_DRIVER must be postgres).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.log != nil {
				_ = logger.Sync(c.log)
			}
		},
	}
	root.PersistentFlags().StringVar(&c.path, "path", "", "Path to migrations directory (default: ./migrations)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	root.AddCommand(
		c.schemaCmd("up", "Apply all pending migrations", cobra.NoArgs, func(m *migration.Migrator, _ []string) error {
			return m.Up()
		}),
		c.schemaCmd("down", "Roll back all migrations", cobra.NoArgs, func(m *migration.Migrator, _ []string) error {
			return m.Down()
		}),
		c.stepCmd(),
		c.schemaCmd("goto <version>", "Migrate up or down to a version", cobra.ExactArgs(1), func(m *migration.Migrator, args []string) error {
			v, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return m.GoTo(uint(v))
		}),
		c.schemaCmd("version", "Show the applied schema version", cobra.NoArgs, func(m *migration.Migrator, _ []string) error {
			v, dirty, err := m.Version()
			if err != nil {
				return err
			}
			c.log.Info("Current migration version", zap.Uint("version", v), zap.Bool("dirty", dirty))
			return nil
		}),
		c.schemaCmd("force <version>", "Record a version without running it (dirty schema recovery)", cobra.ExactArgs(1), func(m *migration.Migrator, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return m.Force(v)
		}),
		c.dropCmd(),
		c.createCmd(),
		c.listCmd(),
	)
	return root
}

func (c *migrateCLI) init() error {
	log, err := logger.ForCLI(c.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.log = log

	path, err := resolveMigrationsPath(c.path)
	if err != nil {
		return err
	}
	c.path = path
	return nil
}

// resolveMigrationsPath prefers an explicit path, then ./migrations, then
// the repository layout relative to the binary.
func resolveMigrationsPath(explicit string) (string, error) {
	path := explicit
	if path == "" {
		path = defaultMigrationsPath
		if _, err := os.Stat(path); err != nil {
			if exe, err := os.Executable(); err == nil {
				candidate := filepath.Join(filepath.Dir(exe), "..", "..", defaultMigrationsPath)
				if _, err := os.Stat(candidate); err == nil {
					path = candidate
				}
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve migrations path: %w", err)
	}
	return abs, nil
}

// schemaCmd builds a command that runs fn against an open postgres migrator
func (c *migrateCLI) schemaCmd(use, short string, args cobra.PositionalArgs, fn func(*migration.Migrator, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withMigrator(func(m *migration.Migrator) error { return fn(m, args) })
		},
	}
}

func (c *migrateCLI) withMigrator(fn func(*migration.Migrator) error) error {
	dbCfg, err := c.load()
	if err != nil {
		return err
	}
	if dbCfg.Driver != "postgres" {
		return fmt.Errorf("%w (got %q)", errUnsupportedDriver, dbCfg.Driver)
	}

	db, err := sql.Open("postgres", dbCfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	m, err := migration.New(db, c.path, c.log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			c.log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	c.log.Info("Migration CLI started",
		zap.String("database", dbCfg.DBName),
		zap.String("migrations_path", c.path),
	)
	return fn(m)
}

func (c *migrateCLI) stepCmd() *cobra.Command {
	cmd := c.schemaCmd("step <n>", "Apply n migrations (negative rolls back)", cobra.ExactArgs(1), func(m *migration.Migrator, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n == 0 {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return m.Steps(n)
	})
	cmd.Example = "  migrate step 1\n  migrate step -- -1"
	return cmd
}

func (c *migrateCLI) dropCmd() *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Drop every database object (requires --confirm)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirm {
				return errors.New("drop cancelled, pass --confirm to drop all tables")
			}
			return c.withMigrator(func(m *migration.Migrator) error { return m.Drop() })
		},
	}
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm dropping all tables")
	return cmd
}

func (c *migrateCLI) createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> [description]",
		Short: "Create an empty up/down migration pair",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := ""
			if len(args) > 1 {
				description = args[1]
			}
			mf, err := migration.CreateMigration(c.path, args[0], description)
			if err != nil {
				return err
			}
			c.log.Info("Migration created", zap.String("version", mf.Version))
			fmt.Fprintln(cmd.OutOrStdout(), mf.UpPath)
			fmt.Fprintln(cmd.OutOrStdout(), mf.DownPath)
			return nil
		},
	}
}

func (c *migrateCLI) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List migration files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := migration.ListMigrations(c.path)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No migrations found")
				return nil
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}
