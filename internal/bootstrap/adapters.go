package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/target/reportd/config"
	"github.com/target/reportd/internal/adapters/reaper"
	schedrunner "github.com/target/reportd/internal/adapters/scheduler"
	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/observability/statsd"
)

// SchedulerConfig contains configuration for the scheduler runner.
type SchedulerConfig struct {
	Services *ServiceContainer
	Config   config.SchedulerConfig
	Logger   *slog.Logger
}

// RunScheduler ticks both report schedulers and dispatches fires until ctx is cancelled.
func RunScheduler(ctx context.Context, cfg SchedulerConfig) error {
	if cfg.Services == nil {
		return fmt.Errorf("scheduler requires services")
	}
	runner, err := schedrunner.NewRunner(schedrunner.RunnerOptions{
		Schedulers: []core.ReportScheduler{
			cfg.Services.Personal.Scheduler,
			cfg.Services.Project.Scheduler,
		},
		Executors: []core.ReportExecutor{
			cfg.Services.Personal.Executor,
			cfg.Services.Project.Executor,
		},
		Interval:                cfg.Config.Interval,
		MaxConcurrentExecutions: cfg.Config.MaxConcurrentExecutions,
		Logger:                  cfg.Logger,
		Metrics:                 cfg.Services.Observability.Sink(),
	})
	if err != nil {
		return fmt.Errorf("create scheduler runner: %w", err)
	}
	return runner.Run(ctx)
}

// ReaperConfig contains configuration for the reaper runner.
type ReaperConfig struct {
	DB        *sql.DB
	Artifacts core.ArtifactStore
	Logger    *slog.Logger
	Config    config.ReaperConfig
	Metrics   statsd.Sink
}

// RunReaper starts the reaper service.
func RunReaper(ctx context.Context, cfg ReaperConfig) error {
	runner, err := reaper.NewRunner(reaper.RunnerOptions{
		DB:        cfg.DB,
		Config:    cfg.Config,
		Artifacts: cfg.Artifacts,
		Logger:    cfg.Logger,
		Metrics:   cfg.Metrics,
	})
	if err != nil {
		return fmt.Errorf("create reaper runner: %w", err)
	}
	return runner.Run(ctx)
}
