package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/data"
	"github.com/target/reportd/internal/domain/model"
	"github.com/target/reportd/internal/domain/report"
	"github.com/target/reportd/internal/domain/scheduler"
)

// ReportJobServiceOptions groups dependencies for ReportJobService.
type ReportJobServiceOptions[K model.Kind] struct {
	Jobs         core.JobStore[K]  // Required
	TimeProvider data.TimeProvider // Optional
	Logger       *slog.Logger      // Optional
}

// ReportJobService validates and stores job definitions of one kind.
type ReportJobService[K model.Kind] struct {
	jobs         core.JobStore[K]
	timeProvider data.TimeProvider
	logger       *slog.Logger
}

// NewReportJobService constructs a ReportJobService.
func NewReportJobService[K model.Kind](opts ReportJobServiceOptions[K]) (*ReportJobService[K], error) {
	if opts.Jobs == nil {
		return nil, errors.New("job store is required")
	}
	if opts.TimeProvider == nil {
		opts.TimeProvider = &data.RealTimeProvider{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportJobService[K]{
		jobs:         opts.Jobs,
		timeProvider: opts.TimeProvider,
		logger:       logger.With("component", "report_jobs", "kind", string(model.KindOf[K]())),
	}, nil
}

// Create validates req, computes the first fire time and stores the job.
func (s *ReportJobService[K]) Create(ctx context.Context, req *model.CreateJobRequest) (*model.JobDefinition, error) {
	if req == nil {
		return nil, errors.New("create job request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	schedule := req.Schedule()
	if err := scheduler.ValidateSchedule(schedule); err != nil {
		return nil, &model.ValidationError{Fields: []string{err.Error()}, Field: "schedule"}
	}
	next, err := scheduler.InitialFireAt(schedule, s.timeProvider.Now())
	if err != nil {
		return nil, fmt.Errorf("compute first fire: %w", err)
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}
	// The id prefixes every artifact name, so it must form a valid one.
	if err := report.ValidateArtifactName(report.ArtifactName(id, time.Time{})); err != nil {
		return nil, &model.ValidationError{Fields: []string{"ID: " + err.Error()}, Field: "id"}
	}

	job, err := s.jobs.Create(ctx, model.NewJobParams{
		ID:            id,
		TargetRef:     strings.TrimSpace(req.TargetRef),
		OwnerUsername: strings.TrimSpace(req.OwnerUsername),
		Schedule:      schedule,
		Window:        req.Window(),
		TrailingDays:  req.TrailingDays,
		NextFireAt:    next,
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "report job created", "job_id", job.ID, "owner", job.OwnerUsername)
	return job, nil
}

// Get returns the job with id.
func (s *ReportJobService[K]) Get(ctx context.Context, id string) (*model.JobDefinition, error) {
	return s.jobs.GetByID(ctx, id)
}

// ListByOwner returns a page of owner's jobs.
func (s *ReportJobService[K]) ListByOwner(ctx context.Context, owner string, opts model.JobListOptions) ([]*model.JobDefinition, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	return s.jobs.ListByOwner(ctx, owner, opts)
}

// Reschedule replaces the schedule of job id and recomputes its next fire.
func (s *ReportJobService[K]) Reschedule(ctx context.Context, id string, req *model.UpdateScheduleRequest) (*model.JobDefinition, error) {
	if req == nil {
		return nil, errors.New("update schedule request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	schedule := req.Schedule()
	if err := scheduler.ValidateSchedule(schedule); err != nil {
		return nil, &model.ValidationError{Fields: []string{err.Error()}, Field: "schedule"}
	}
	next, err := scheduler.InitialFireAt(schedule, s.timeProvider.Now())
	if err != nil {
		return nil, fmt.Errorf("compute next fire: %w", err)
	}
	return s.jobs.UpdateSchedule(ctx, core.UpdateJobScheduleParams{ID: id, Schedule: schedule, NextFireAt: next})
}

// Delete removes job id. Its execution history is kept.
func (s *ReportJobService[K]) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.jobs.Delete(ctx, id)
	if err == nil && ok {
		s.logger.InfoContext(ctx, "report job deleted", "job_id", id)
	}
	return ok, err
}
