package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/target/reportd/config"
	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/domain/model"
	obserrors "github.com/target/reportd/internal/observability/errors"
	"github.com/target/reportd/internal/observability/metrics"
	"github.com/target/reportd/internal/observability/statsd"
)

// StaleExecutionReason is recorded on executions the reaper fails.
const StaleExecutionReason = "execution abandoned: no outcome recorded before the stale threshold"

// ReaperServiceOptions groups dependencies for ReaperService.
type ReaperServiceOptions struct {
	Personal  core.ExecutionLogReaper[model.Personal] // Required
	Project   core.ExecutionLogReaper[model.Project]  // Required
	Artifacts core.ArtifactStore                      // Optional: temp file cleanup is skipped when nil
	Config    config.ReaperConfig                     // Required: reaper configuration
	Logger    *slog.Logger                            // Optional: structured logger
	Metrics   statsd.Sink                             // Optional: metrics sink (StatsD-compatible)
}

// ReaperService recovers from crashed executions. It fails executions stuck
// IN_PROGRESS past their kind's threshold, which frees the job for its next
// fire, and removes partial artifact writes. Execution logs are never deleted.
type ReaperService struct {
	personal  core.ExecutionLogReaper[model.Personal]
	project   core.ExecutionLogReaper[model.Project]
	artifacts core.ArtifactStore
	config    config.ReaperConfig
	logger    *slog.Logger
	metrics   statsd.Sink
}

// NewReaperService constructs a new ReaperService.
func NewReaperService(opts ReaperServiceOptions) (*ReaperService, error) {
	if opts.Personal == nil || opts.Project == nil {
		return nil, errors.New("execution log reapers for both kinds are required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "reaper_service")
		logger.Debug("ReaperService initialized",
			"interval", opts.Config.Interval,
			"personal_stale_after", opts.Config.PersonalStaleAfter,
			"project_stale_after", opts.Config.ProjectStaleAfter,
			"temp_artifact_max_age", opts.Config.TempArtifactMaxAge,
		)
	}

	return &ReaperService{
		personal:  opts.Personal,
		project:   opts.Project,
		artifacts: opts.Artifacts,
		config:    opts.Config,
		logger:    logger,
		metrics:   opts.Metrics,
	}, nil
}

// Run starts the reaper loop and runs until the context is cancelled.
// Returns nil on graceful shutdown (context.Canceled), error otherwise.
func (s *ReaperService) Run(ctx context.Context) error {
	if s.logger != nil {
		s.logger.InfoContext(ctx, "starting reaper service", "interval", s.config.Interval)
	}

	s.waitWithJitter(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	if err := s.RunOnce(ctx); err != nil {
		s.logCleanupError(err, "initial cleanup")
	}

	return s.runLoop(ctx, ticker)
}

// waitWithJitter adds a random delay up to 10% of the interval to prevent thundering herd.
func (s *ReaperService) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.config.Interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		}
		return
	}

	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter which is int64

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
	}
}

func (s *ReaperService) runLoop(ctx context.Context, ticker *time.Ticker) error {
	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.InfoContext(ctx, "reaper service stopping", "reason", ctx.Err())
			}
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logCleanupError(err, "cleanup")
			}
		}
	}
}

// reapStep is one independent cleanup operation. Operation names tag metrics.
type reapStep struct {
	operation string
	run       func(context.Context) (int64, error)
}

type reapResult struct {
	operation string
	count     int64
	err       error
}

func (s *ReaperService) steps() []reapStep {
	return []reapStep{
		{operation: "fail_stale_personal", run: s.failStalePersonal},
		{operation: "fail_stale_project", run: s.failStaleProject},
		{operation: "remove_temp_artifacts", run: s.cleanupTempArtifacts},
	}
}

// RunOnce performs every cleanup step once. Steps run independently; a failing
// step does not prevent the others. When every failure is a context
// cancellation the pass returns context.Canceled.
func (s *ReaperService) RunOnce(ctx context.Context) error {
	start := time.Now()

	steps := s.steps()
	results := make([]reapResult, 0, len(steps))
	var errs []error
	canceledOnly := true
	for _, step := range steps {
		count, err := step.run(ctx)
		results = append(results, reapResult{operation: step.operation, count: count, err: err})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", step.operation, err))
			canceledOnly = canceledOnly && isContextCancellation(err)
		}
	}

	s.emitCleanupMetrics(results, time.Since(start))

	if len(errs) == 0 {
		return nil
	}
	if canceledOnly {
		return context.Canceled
	}
	return fmt.Errorf("cleanup failed: %w", errors.Join(errs...))
}

func (s *ReaperService) failStalePersonal(ctx context.Context) (int64, error) {
	return s.failStale(ctx, model.ReportKindPersonal, s.personal.FailStaleInProgress)
}

func (s *ReaperService) failStaleProject(ctx context.Context) (int64, error) {
	return s.failStale(ctx, model.ReportKindProject, s.project.FailStaleInProgress)
}

// failStale loops in batches until no stale rows remain.
func (s *ReaperService) failStale(
	ctx context.Context,
	kind model.ReportKind,
	fn func(context.Context, core.FailStaleParams) (int64, error),
) (int64, error) {
	params := core.FailStaleParams{
		MaxAge:    s.config.StaleAfter(kind),
		BatchSize: s.config.BatchSize,
		Reason:    StaleExecutionReason,
	}
	var totalCount int64
	for {
		count, err := fn(ctx, params)
		if err != nil {
			return totalCount, err
		}
		totalCount += count
		if count == 0 || count < int64(params.BatchSize) {
			break
		}
		if ctx.Err() != nil {
			return totalCount, ctx.Err()
		}
	}

	if totalCount > 0 && s.logger != nil {
		s.logger.InfoContext(ctx, "failed stale executions",
			"kind", string(kind),
			"count", totalCount,
			"max_age", params.MaxAge,
		)
	}
	return totalCount, nil
}

func (s *ReaperService) cleanupTempArtifacts(ctx context.Context) (int64, error) {
	if s.artifacts == nil {
		return 0, nil
	}
	n, err := s.artifacts.CleanupTemp(ctx, s.config.TempArtifactMaxAge)
	if n > 0 && s.logger != nil {
		s.logger.InfoContext(ctx, "removed temporary artifacts", "count", n)
	}
	return int64(n), err
}

func (s *ReaperService) emitCleanupMetrics(results []reapResult, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}

	var (
		total    int64
		firstErr error
	)
	for _, r := range results {
		err := suppressContextCancellation(r.err)
		total += r.count
		if firstErr == nil {
			firstErr = err
		}

		tags := resultTags(r.count, err)
		tags["operation"] = r.operation
		s.metrics.Count("reaper.cleanup_operation", 1, tags)
		if err == nil && r.count > 0 {
			s.metrics.Count("reaper.rows_processed", r.count, metrics.CloneTags(tags))
		}
	}

	tags := resultTags(total, firstErr)
	s.metrics.Count("reaper.cleanup", 1, tags)
	s.metrics.Timing("reaper.cleanup_duration", elapsed, metrics.CloneTags(tags))
	if firstErr == nil {
		s.metrics.Gauge("reaper.last_success_epoch", float64(time.Now().Unix()), nil)
	}
}

// resultTags maps an outcome to result (and error_class) tags.
func resultTags(count int64, err error) map[string]string {
	switch {
	case err != nil:
		tags := map[string]string{"result": metrics.ResultError}
		if class := obserrors.Classify(err); class != "" {
			tags["error_class"] = class
		}
		return tags
	case count == 0:
		return map[string]string{"result": metrics.ResultNoop}
	default:
		return map[string]string{"result": metrics.ResultSuccess}
	}
}

func (s *ReaperService) logCleanupError(err error, label string) {
	if err == nil || s.logger == nil {
		return
	}
	if isContextCancellation(err) {
		s.logger.Debug(label+" cancelled by context", "error", err)
		return
	}
	s.logger.Error(label+" failed", "error", err)
}

func isContextCancellation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func suppressContextCancellation(err error) error {
	if isContextCancellation(err) {
		return nil
	}
	return err
}
