package cli

import (
	"fmt"
	"strconv"

	"github.com/erp/servicepack/internal/infrastructure/migration"
	"github.com/erp/servicepack/internal/infrastructure/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewMigrateCmd creates the "migrate" command group for the postgres schema
func NewMigrateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "migrate",
		Short:       "Manage the postgres schema",
		Annotations: map[string]string{annotationConfigOnly: "true"},
	}

	run := func(fn func(m *migration.Migrator) error) error {
		return store.Migrate(app.Config.Database, app.log().Named("migrate"), fn)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return run(func(m *migration.Migrator) error { return m.Up() })
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return run(func(m *migration.Migrator) error { return m.Down() })
			},
		},
		&cobra.Command{
			Use:     "step <n>",
			Short:   "Apply n migrations (negative rolls back)",
			Example: "  servicepack migrate step 1\n  servicepack migrate step -- -1",
			Args:    cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				return run(func(m *migration.Migrator) error { return m.Steps(n) })
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Show the applied migration version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(func(m *migration.Migrator) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					if version == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No migrations applied")
						return nil
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the migration version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version number %q", args[0])
				}
				return run(func(m *migration.Migrator) error { return m.Force(version) })
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List the embedded migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				names, err := migration.List()
				if err != nil {
					return err
				}
				app.log().Debug("embedded migrations", zap.Int("count", len(names)))
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), "  -", name)
				}
				return nil
			},
		},
	)

	return cmd
}

// NewMigrateRootCmd creates the standalone "migrate" binary command
func NewMigrateRootCmd(app *App) *cobra.Command {
	var opts rootOptions

	cmd := NewMigrateCmd(app)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		return app.loadConfig(opts)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, _ []string) error {
		return app.Close(cmd.Context())
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to servicepack.toml (default: search ., ./config, /etc/servicepack)")
	flags.StringVar(&opts.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	return cmd
}
