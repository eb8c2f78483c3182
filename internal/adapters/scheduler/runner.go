// Package scheduler provides adapters for running the report schedulers.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/domain/model"
	"github.com/target/reportd/internal/domain/report"
	obserrors "github.com/target/reportd/internal/observability/errors"
	"github.com/target/reportd/internal/observability/metrics"
	"github.com/target/reportd/internal/observability/statsd"
)

// Runner ticks every scheduler at a fixed interval and dispatches the resulting
// fires to the executor of the matching kind on a bounded worker pool.
type Runner struct {
	schedulers []core.ReportScheduler
	executors  map[model.ReportKind]core.ReportExecutor
	interval   time.Duration
	limit      int
	logger     *slog.Logger
	metrics    statsd.Sink
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	Schedulers []core.ReportScheduler
	Executors  []core.ReportExecutor
	Interval   time.Duration
	// MaxConcurrentExecutions bounds in-flight executions across all kinds.
	MaxConcurrentExecutions int
	Logger                  *slog.Logger
	Metrics                 statsd.Sink
}

// NewRunner creates a new scheduler runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if err := validateRunnerOptions(&opts); err != nil {
		return nil, err
	}

	executors := make(map[model.ReportKind]core.ReportExecutor, len(opts.Executors))
	for _, e := range opts.Executors {
		executors[e.Kind()] = e
	}
	for _, s := range opts.Schedulers {
		if _, ok := executors[s.Kind()]; !ok {
			return nil, fmt.Errorf("no executor registered for %s reports", s.Kind())
		}
	}

	return &Runner{
		schedulers: opts.Schedulers,
		executors:  executors,
		interval:   opts.Interval,
		limit:      opts.MaxConcurrentExecutions,
		logger:     opts.Logger.With("component", "scheduler_runner"),
		metrics:    opts.Metrics,
	}, nil
}

// validateRunnerOptions validates and sets defaults for RunnerOptions.
func validateRunnerOptions(opts *RunnerOptions) error {
	if len(opts.Schedulers) == 0 {
		return errors.New("at least one scheduler is required")
	}
	if opts.Interval <= 0 {
		opts.Interval = 1 * time.Second
	}
	if opts.MaxConcurrentExecutions <= 0 {
		opts.MaxConcurrentExecutions = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return nil
}

// Run starts the scheduler loop and runs until the context is cancelled.
// On shutdown it stops ticking and waits for in-flight executions to record their outcome.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting scheduler runner",
		"interval", r.interval,
		"max_concurrent_executions", r.limit,
	)

	var workers errgroup.Group
	workers.SetLimit(r.limit)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "scheduler runner stopping, draining executions", "reason", ctx.Err())
			_ = workers.Wait()
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case now := <-ticker.C:
			r.tick(ctx, &workers, now.UTC())
		}
	}
}

// tick runs every scheduler once. One scheduler failing does not stop the others.
func (r *Runner) tick(ctx context.Context, workers *errgroup.Group, now time.Time) {
	for _, s := range r.schedulers {
		start := time.Now()
		fires, err := s.Tick(ctx, now)
		r.emitTickMetrics(s.Kind(), len(fires), time.Since(start), err)

		if err != nil {
			if ctx.Err() == nil {
				r.logger.ErrorContext(ctx, "scheduler tick failed", "kind", string(s.Kind()), "error", err)
			}
			continue
		}

		for _, fire := range fires {
			// Blocks when the pool is full, which applies backpressure to the tick loop.
			workers.Go(func() error {
				r.dispatch(ctx, fire)
				return nil
			})
		}
	}
}

// dispatch runs one fire. Executions outlive shutdown so they can record an outcome.
func (r *Runner) dispatch(ctx context.Context, fire core.Fire) {
	exec := r.executors[fire.Kind]
	ec := report.NewExecutionContext(fire.JobID).WithFire(fire.FireKey, fire.FiredAt)

	outcome, err := exec.Execute(context.WithoutCancel(ctx), ec)
	result := dispatchResult(outcome, err)

	if r.metrics != nil {
		r.metrics.Count("scheduler.dispatched", 1, map[string]string{
			"kind":   string(fire.Kind),
			"result": result,
		})
	}

	if err != nil {
		r.logger.ErrorContext(ctx, "scheduled execution failed before recording an outcome",
			"kind", string(fire.Kind),
			"job_id", fire.JobID,
			"fire_key", fire.FireKey,
			"stage_failure", model.IsStageError(err),
			"error", err,
		)
		return
	}
	r.logger.DebugContext(ctx, "scheduled execution finished",
		"kind", string(fire.Kind),
		"job_id", fire.JobID,
		"fire_key", fire.FireKey,
		"result", result,
	)
}

func dispatchResult(outcome *model.ExecutionOutcome, err error) string {
	switch {
	case err != nil, outcome == nil:
		return metrics.ResultError
	case outcome.Skipped:
		return metrics.ResultSkipped
	case outcome.Status == model.UploadStatusSuccess:
		return metrics.ResultSuccess
	default:
		return metrics.ResultError
	}
}

func (r *Runner) emitTickMetrics(kind model.ReportKind, fired int, elapsed time.Duration, err error) {
	if r.metrics == nil {
		return
	}

	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	} else if fired == 0 {
		result = metrics.ResultNoop
	}

	tags := map[string]string{
		"kind":   string(kind),
		"result": result,
	}
	if err != nil {
		if class := obserrors.Classify(err); class != "" {
			tags["error_class"] = class
		}
	}

	r.metrics.Count("scheduler.tick", 1, tags)
	if fired > 0 {
		r.metrics.Count("scheduler.fires", int64(fired), metrics.CloneTags(tags))
	}
	if elapsed > 0 {
		r.metrics.Timing("scheduler.tick_duration", elapsed, metrics.CloneTags(tags))
	}
	if err == nil {
		r.metrics.Gauge("scheduler.last_success_epoch", float64(time.Now().Unix()), map[string]string{"kind": string(kind)})
	}
}
