package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/target/reportd/internal/bootstrap"
	"github.com/target/reportd/internal/domain/report"
)

var fireCmd = &cobra.Command{
	Use:   "fire <kind> <jobId>",
	Short: "Execute a job immediately, outside its schedule",
	Long: "Runs the full report pipeline for one job in this process and prints the outcome. " +
		"The job's schedule is not advanced. If an execution of the job is already in progress the run is skipped.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}
		opts := &connectInfraOptions{Logger: cmdCtx.Logger, Config: &cmdCtx.Config, WantRedis: true}
		return withInfra(cmd.Context(), opts, func(ctx context.Context, conns *infra) error {
			services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
				Config:      &cmdCtx.Config,
				DB:          conns.DB,
				RedisClient: conns.Redis,
				Logger:      cmdCtx.Logger,
			})
			if err != nil {
				return fmt.Errorf("init services: %w", err)
			}
			defer services.Close()

			executor, err := services.Executor(kind)
			if err != nil {
				return err
			}
			outcome, err := executor.Execute(ctx, report.NewExecutionContext(args[1]))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(outcome)
		})
	},
}

func init() {
	rootCmd.AddCommand(fireCmd)
}
