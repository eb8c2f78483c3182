// Package reaper provides adapters for running the execution reaper.
package reaper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/reportd/config"
	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/data"
	"github.com/target/reportd/internal/domain/model"
	"github.com/target/reportd/internal/observability/statsd"
	"github.com/target/reportd/internal/service"
)

// Runner provides a simple adapter to run the reaper loop.
// It constructs the reaper service and runs the cleanup loop.
type Runner struct {
	reaper *service.ReaperService
	logger *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	DB        *sql.DB
	Config    config.ReaperConfig
	Artifacts core.ArtifactStore
	Logger    *slog.Logger
	Metrics   statsd.Sink

	// Optional dependency injection for testing/decoupling
	Personal core.ExecutionLogReaper[model.Personal]
	Project  core.ExecutionLogReaper[model.Project]
}

// NewRunner creates a new reaper runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if err := validateRunnerOptions(&opts); err != nil {
		return nil, err
	}

	reaper, err := wireReaperService(opts)
	if err != nil {
		return nil, fmt.Errorf("wire reaper service: %w", err)
	}

	return &Runner{reaper: reaper, logger: opts.Logger}, nil
}

func validateRunnerOptions(opts *RunnerOptions) error {
	if opts.DB == nil && (opts.Personal == nil || opts.Project == nil) {
		return errors.New("database connection is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return nil
}

func wireReaperService(opts RunnerOptions) (*service.ReaperService, error) {
	personal := opts.Personal
	if personal == nil {
		personal = data.NewExecutionLogRepo[model.Personal](opts.DB)
	}
	project := opts.Project
	if project == nil {
		project = data.NewExecutionLogRepo[model.Project](opts.DB)
	}

	return service.NewReaperService(service.ReaperServiceOptions{
		Personal:  personal,
		Project:   project,
		Artifacts: opts.Artifacts,
		Config:    opts.Config,
		Logger:    opts.Logger,
		Metrics:   opts.Metrics,
	})
}

// Run starts the reaper loop and runs until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting reaper runner")
	return r.reaper.Run(ctx)
}

// RunOnce performs a single cleanup pass.
func (r *Runner) RunOnce(ctx context.Context) error {
	return r.reaper.RunOnce(ctx)
}
