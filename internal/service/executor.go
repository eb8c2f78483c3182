package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/data"
	"github.com/target/reportd/internal/domain/model"
	"github.com/target/reportd/internal/domain/report"
	obserrors "github.com/target/reportd/internal/observability/errors"
	"github.com/target/reportd/internal/observability/metrics"
	"github.com/target/reportd/internal/observability/notify"
	"github.com/target/reportd/internal/observability/statsd"
)

// FailureNotifier receives a payload for every execution that ends FAILED.
type FailureNotifier interface {
	NotifyReportFailure(ctx context.Context, payload notify.ReportFailurePayload)
}

// ExecutorStores groups the persistence ports used by ReportExecutor.
type ExecutorStores[K model.Kind] struct {
	Jobs        core.JobStore[K]           // Required
	Logs        core.ExecutionLogStore[K]  // Required
	Subscribers core.SubscriberStore       // Required: resolves the notification email
	ViewCache   *core.SubscriberViewCache // Optional: invalidated after SUCCESS
}

// ExecutorPipeline groups the stage collaborators of ReportExecutor.
type ExecutorPipeline[K model.Kind] struct {
	Data      core.ReportDataProvider[K] // Required
	Markup    core.MarkupRenderer        // Required
	Documents core.DocumentRenderer      // Required
	Artifacts core.ArtifactStore         // Required: confirms and cleans up documents
}

// ExecutorObservers groups the optional side channels of ReportExecutor.
type ExecutorObservers struct {
	Notifications core.NotificationPublisher // Optional: receives intents after SUCCESS
	Failures      FailureNotifier            // Optional: Slack / PagerDuty fan-out
	Metrics       statsd.Sink                // Optional
	Logger        *slog.Logger               // Optional
}

// ReportExecutorOptions groups dependencies for ReportExecutor.
type ReportExecutorOptions[K model.Kind] struct {
	Stores       ExecutorStores[K]
	Pipeline     ExecutorPipeline[K]
	Observers    ExecutorObservers
	TimeProvider data.TimeProvider // Optional: defaults to the wall clock
}

// ReportExecutor runs one report job end to end: it claims the job's IN_PROGRESS slot,
// runs the data, template and document stages in order and records the outcome on the
// execution log. It implements core.ReportExecutor.
type ReportExecutor[K model.Kind] struct {
	kind         model.ReportKind
	stores       ExecutorStores[K]
	pipeline     ExecutorPipeline[K]
	observers    ExecutorObservers
	timeProvider data.TimeProvider
	logger       *slog.Logger
}

var (
	_ core.ReportExecutor = (*ReportExecutor[model.Personal])(nil)
	_ core.ReportExecutor = (*ReportExecutor[model.Project])(nil)
)

// NewReportExecutor validates required dependencies.
func NewReportExecutor[K model.Kind](opts ReportExecutorOptions[K]) (*ReportExecutor[K], error) {
	switch {
	case opts.Stores.Jobs == nil:
		return nil, errors.New("job store is required")
	case opts.Stores.Logs == nil:
		return nil, errors.New("execution log store is required")
	case opts.Stores.Subscribers == nil:
		return nil, errors.New("subscriber store is required")
	case opts.Pipeline.Data == nil:
		return nil, errors.New("report data provider is required")
	case opts.Pipeline.Markup == nil:
		return nil, errors.New("markup renderer is required")
	case opts.Pipeline.Documents == nil:
		return nil, errors.New("document renderer is required")
	case opts.Pipeline.Artifacts == nil:
		return nil, errors.New("artifact store is required")
	}
	if opts.TimeProvider == nil {
		opts.TimeProvider = &data.RealTimeProvider{}
	}
	kind := model.KindOf[K]()
	logger := opts.Observers.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ReportExecutor[K]{
		kind:         kind,
		stores:       opts.Stores,
		pipeline:     opts.Pipeline,
		observers:    opts.Observers,
		timeProvider: opts.TimeProvider,
		logger:       logger.With("component", "report_executor", "kind", string(kind)),
	}, nil
}

// Kind returns the report kind this executor serves.
func (e *ReportExecutor[K]) Kind() model.ReportKind { return e.kind }

// Execute runs one trigger. It returns an error only for failures that happen before an
// execution log exists (missing identity, unknown job, store outage while claiming the
// slot) or when the outcome could not be recorded. Stage failures are recorded as FAILED
// and reported through the outcome with a nil error; a held slot yields Skipped.
func (e *ReportExecutor[K]) Execute(ctx context.Context, ec report.ExecutionContext) (*model.ExecutionOutcome, error) {
	start := time.Now()

	jobID, err := report.ResolveJobID(ec)
	if err != nil {
		e.emit(model.StageIdentity, metrics.ResultError, start, err)
		return nil, err
	}

	job, err := e.stores.Jobs.GetByID(ctx, jobID)
	if err != nil {
		e.emit(model.StageLoadJob, metrics.ResultError, start, err)
		return nil, fmt.Errorf("load %s job %s: %w", e.kind, jobID, err)
	}

	startedAt := e.timeProvider.Now().UTC()
	log, err := e.stores.Logs.CreateInProgress(ctx, model.CreateExecutionLogParams{
		JobID:         job.ID,
		OwnerUsername: job.OwnerUsername,
		FireKey:       ec.FireKey(),
		StartedAt:     startedAt,
	})
	if errors.Is(err, model.ErrJobAlreadyRunning) {
		e.logger.InfoContext(ctx, "execution skipped, job already running", "job_id", job.ID)
		e.emit("", metrics.ResultSkipped, start, nil)
		return &model.ExecutionOutcome{JobID: job.ID, Kind: e.kind, Skipped: true}, nil
	}
	if err != nil {
		e.emit(model.StageLoadJob, metrics.ResultError, start, err)
		return nil, fmt.Errorf("start %s execution for %s: %w", e.kind, job.ID, err)
	}

	run := &execution[K]{executor: e, job: job, log: log, startedAt: startedAt, start: start}
	return run.pipeline(ctx)
}

// execution carries the state of one claimed run.
type execution[K model.Kind] struct {
	executor  *ReportExecutor[K]
	job       *model.JobDefinition
	log       *model.ExecutionLog
	startedAt time.Time
	start     time.Time
}

func (x *execution[K]) pipeline(ctx context.Context) (*model.ExecutionOutcome, error) {
	e := x.executor

	stageStart := time.Now()
	payload, err := e.pipeline.Data.GetReportData(ctx, x.job)
	metrics.EmitStageDuration(e.observers.Metrics, string(e.kind), string(model.StageData), time.Since(stageStart), err)
	if err != nil {
		return x.fail(ctx, model.StageData, err)
	}

	stageStart = time.Now()
	markup, err := e.pipeline.Markup.GenerateHTML(payload, e.kind)
	metrics.EmitStageDuration(e.observers.Metrics, string(e.kind), string(model.StageTemplate), time.Since(stageStart), err)
	if err != nil {
		return x.fail(ctx, model.StageTemplate, err)
	}

	stageStart = time.Now()
	fileName := report.ArtifactName(x.job.ID, x.startedAt)
	artifact, err := e.pipeline.Documents.GeneratePDF(ctx, e.kind, markup, fileName)
	if err == nil {
		err = x.confirmArtifact(ctx, artifact, fileName)
	}
	metrics.EmitStageDuration(e.observers.Metrics, string(e.kind), string(model.StageDocument), time.Since(stageStart), err)
	if err != nil {
		return x.fail(ctx, model.StageDocument, err)
	}

	return x.succeed(ctx, artifact.FileRef)
}

// confirmArtifact checks the document can be read back under the name it was written to.
func (x *execution[K]) confirmArtifact(ctx context.Context, artifact *core.Artifact, fileName string) error {
	if artifact == nil || artifact.FileRef == "" {
		return &model.DocumentRenderError{FileName: fileName, Message: "renderer returned no artifact"}
	}
	ok, err := x.executor.pipeline.Artifacts.Exists(ctx, artifact.FileRef)
	if err != nil {
		return &model.DocumentRenderError{FileName: fileName, Message: "confirm artifact", Cause: err}
	}
	if !ok {
		return &model.DocumentRenderError{FileName: fileName, Message: "artifact not retrievable after write"}
	}
	return nil
}

// endedAt never precedes startedAt, even if the clock steps backwards.
func (x *execution[K]) endedAt() time.Time {
	now := x.executor.timeProvider.Now().UTC()
	if now.Before(x.startedAt) {
		return x.startedAt
	}
	return now
}

func (x *execution[K]) succeed(ctx context.Context, fileRef string) (*model.ExecutionOutcome, error) {
	e := x.executor
	// Recording the outcome must survive caller cancellation, or the slot stays held.
	recordCtx := context.WithoutCancel(ctx)

	_, err := e.stores.Logs.Finalize(recordCtx, model.FinalizeExecutionParams{
		ID:      x.log.ID,
		Status:  model.UploadStatusSuccess,
		EndedAt: x.endedAt(),
		FileRef: fileRef,
	})
	if err != nil {
		if delErr := e.pipeline.Artifacts.Delete(recordCtx, fileRef); delErr != nil {
			e.logger.WarnContext(ctx, "remove artifact after failed finalization",
				"job_id", x.job.ID, "log_id", x.log.ID, "file_ref", fileRef, "error", delErr)
		}
		return x.fail(ctx, model.StageFinalize, err)
	}

	e.logger.InfoContext(ctx, "report generated",
		"job_id", x.job.ID,
		"log_id", x.log.ID,
		"owner", x.job.OwnerUsername,
		"file_ref", fileRef,
		"duration", time.Since(x.start),
	)
	e.emit("", metrics.ResultSuccess, x.start, nil)

	if e.stores.ViewCache != nil {
		if err := e.stores.ViewCache.Invalidate(recordCtx, x.job.OwnerUsername); err != nil {
			e.logger.WarnContext(ctx, "invalidate subscriber view", "owner", x.job.OwnerUsername, "error", err)
		}
	}
	x.notify(recordCtx, fileRef)

	return &model.ExecutionOutcome{
		JobID:   x.job.ID,
		Kind:    e.kind,
		LogID:   x.log.ID,
		Status:  model.UploadStatusSuccess,
		FileRef: fileRef,
	}, nil
}

// notify hands the delivery intent to the publisher. Failures are logged only; SUCCESS stands.
func (x *execution[K]) notify(ctx context.Context, fileRef string) {
	e := x.executor
	if e.observers.Notifications == nil {
		return
	}
	sub, err := e.stores.Subscribers.GetByUsername(ctx, x.job.OwnerUsername)
	if err != nil {
		e.logger.WarnContext(ctx, "resolve subscriber for notification",
			"job_id", x.job.ID, "owner", x.job.OwnerUsername, "error", err)
		return
	}
	intent := model.NotificationIntent{
		Username: sub.Username,
		Email:    sub.Email,
		FileRef:  fileRef,
		Kind:     e.kind,
		JobID:    x.job.ID,
		LogID:    x.log.ID.String(),
	}
	if err := e.observers.Notifications.Publish(ctx, intent); err != nil {
		e.logger.WarnContext(ctx, "publish notification intent",
			"job_id", x.job.ID, "log_id", x.log.ID, "error", err)
	}
}

func (x *execution[K]) fail(ctx context.Context, stage model.Stage, cause error) (*model.ExecutionOutcome, error) {
	e := x.executor
	reason := cause.Error()
	recordCtx := context.WithoutCancel(ctx)

	_, err := e.stores.Logs.Finalize(recordCtx, model.FinalizeExecutionParams{
		ID:            x.log.ID,
		Status:        model.UploadStatusFailed,
		EndedAt:       x.endedAt(),
		FailureReason: reason,
	})
	if err != nil {
		e.emit(stage, metrics.ResultError, x.start, cause)
		return nil, fmt.Errorf("record %s failure for %s job %s: %w", stage, e.kind, x.job.ID, errors.Join(cause, err))
	}

	e.logger.ErrorContext(ctx, "report execution failed",
		"job_id", x.job.ID,
		"log_id", x.log.ID,
		"stage", string(stage),
		"error", cause,
	)
	e.emit(stage, metrics.ResultError, x.start, cause)

	if e.observers.Failures != nil {
		e.observers.Failures.NotifyReportFailure(recordCtx, notify.ReportFailurePayload{
			JobID:         x.job.ID,
			Kind:          string(e.kind),
			LogID:         x.log.ID.String(),
			OwnerUsername: x.job.OwnerUsername,
			TargetRef:     x.job.TargetRef,
			Stage:         string(stage),
			Error:         reason,
			ErrorClass:    obserrors.Classify(cause),
			Severity:      failureSeverity(cause),
			OccurredAt:    e.timeProvider.Now().UTC(),
		})
	}

	return &model.ExecutionOutcome{
		JobID:         x.job.ID,
		Kind:          e.kind,
		LogID:         x.log.ID,
		Status:        model.UploadStatusFailed,
		FailedStage:   stage,
		FailureReason: reason,
	}, nil
}

// failureSeverity downgrades failures caused by vanished report targets; nothing is broken.
func failureSeverity(err error) string {
	var unavailable *model.ReportDataUnavailableError
	if errors.As(err, &unavailable) {
		return notify.SeverityWarning
	}
	return notify.SeverityCritical
}

func (e *ReportExecutor[K]) emit(stage model.Stage, result string, start time.Time, err error) {
	metrics.EmitReportExecution(e.observers.Metrics, metrics.ReportExecutionMetric{
		Kind:     string(e.kind),
		Result:   result,
		Stage:    string(stage),
		Duration: time.Since(start),
		Err:      err,
	})
}
