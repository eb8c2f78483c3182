package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/target/reportd/internal/migrate"
)

const defaultMigrationTimeout = 5 * time.Minute

var migrateTimeout time.Duration

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
		defer cancel()
		opts := &connectInfraOptions{Logger: cmdCtx.Logger, Config: &cmdCtx.Config}
		return withInfra(ctx, opts, func(ctx context.Context, conns *infra) error {
			if err := migrate.Run(ctx, conns.DB); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			return writef(cmd.OutOrStdout(), "Migrations applied\n")
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List embedded migrations and whether they are applied",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
		defer cancel()
		opts := &connectInfraOptions{Logger: cmdCtx.Logger, Config: &cmdCtx.Config}
		return withInfra(ctx, opts, func(ctx context.Context, conns *infra) error {
			statuses, err := migrate.Status(ctx, conns.DB)
			if err != nil {
				return fmt.Errorf("migration status: %w", err)
			}
			return printMigrationStatus(cmd, statuses)
		})
	},
}

func printMigrationStatus(cmd *cobra.Command, statuses []migrate.VersionStatus) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	if err := writef(tw, "VERSION\tAPPLIED\tAPPLIED AT\n"); err != nil {
		return err
	}
	for _, s := range statuses {
		at := "-"
		if s.Applied {
			at = formatTime(&s.AppliedAt)
		}
		if err := writef(tw, "%s\t%t\t%s\n", s.Version, s.Applied, at); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func init() {
	migrateCmd.PersistentFlags().DurationVar(&migrateTimeout, "timeout", defaultMigrationTimeout, "Migration timeout")
	migrateCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}
