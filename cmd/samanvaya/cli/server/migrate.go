package server

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/samanvaya/samanvaya/internal/agent"
	"github.com/samanvaya/samanvaya/pkg/db/migrations"
	"github.com/samanvaya/samanvaya/pkg/log"
	"github.com/spf13/cobra"

	config "github.com/samanvaya/samanvaya/internal/config/server"
)

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage metadata store migrations",
	}

	cmd.AddCommand(newMigrateUpCommand())
	cmd.AddCommand(newMigrateStatusCommand())
	cmd.AddCommand(newMigrateRollbackCommand())

	return cmd
}

// withMigrator connects to the configured store and hands its migrator to fn.
func withMigrator(fn func(ctx context.Context, m *migrations.Migrator) error) error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load server configuration: %w", err)
	}

	ctx := context.Background()
	logger := log.NewLoggerService(cfg.Log.Name, cfg.Log).Named("migrate")

	s, err := agent.ConnectStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	return fn(ctx, migrations.NewMigrator(s.DB(), s.Registry()))
}

func newMigrateUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(ctx context.Context, m *migrations.Migrator) error {
				if err := m.Migrate(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
				return nil
			})
		},
	}
}

func newMigrateStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which migrations are applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(ctx context.Context, m *migrations.Migrator) error {
				statuses, err := m.Status(ctx)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "VERSION\tAPPLIED\tDESCRIPTION")
				for _, status := range statuses {
					fmt.Fprintf(w, "%d\t%t\t%s\n", status.Version, status.Applied, status.Description)
				}
				return w.Flush()
			})
		},
	}
}

func newMigrateRollbackCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rollback",
		Short: "Roll back the last applied migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(ctx context.Context, m *migrations.Migrator) error {
				if err := m.Rollback(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Rolled back the last migration")
				return nil
			})
		},
	}
}
