package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/target/reportd/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// Stores are generic over the report kind so a personal log can never be written to the
// project table by accident; the data layer picks the table pair from K.

// JobStore persists job definitions of one kind.
type JobStore[K model.Kind] interface {
	// Create inserts a job and reserves its id in the shared registry.
	// Returns model.ErrJobAlreadyExists when the id is taken by either kind.
	Create(ctx context.Context, params model.NewJobParams) (*model.JobDefinition, error)
	// GetByID returns model.ErrJobNotFound when the id is unknown for this kind.
	GetByID(ctx context.Context, id string) (*model.JobDefinition, error)
	ListByOwner(ctx context.Context, owner string, opts model.JobListOptions) ([]*model.JobDefinition, error)
	// UpdateSchedule is the only mutation allowed on a stored job.
	UpdateSchedule(ctx context.Context, params UpdateJobScheduleParams) (*model.JobDefinition, error)
	// Delete removes the job and releases its id. Execution logs are kept.
	Delete(ctx context.Context, id string) (bool, error)
}

// UpdateJobScheduleParams groups parameters for JobStore.UpdateSchedule.
type UpdateJobScheduleParams struct {
	ID         string
	Schedule   model.Schedule
	NextFireAt *time.Time
}

// ExecutionLogStore persists execution logs of one kind.
type ExecutionLogStore[K model.Kind] interface {
	// CreateInProgress atomically inserts an IN_PROGRESS log. When the job already
	// has one it returns model.ErrJobAlreadyRunning and writes nothing.
	CreateInProgress(ctx context.Context, params model.CreateExecutionLogParams) (*model.ExecutionLog, error)
	// Finalize moves an IN_PROGRESS log to SUCCESS or FAILED. A SUCCESS finalization
	// increments the owner's counter for K in the same transaction.
	// Returns model.ErrExecutionAlreadyFinalized when the log is already terminal.
	Finalize(ctx context.Context, params model.FinalizeExecutionParams) (*model.ExecutionLog, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.ExecutionLog, error)
	ListByJob(ctx context.Context, jobID string, opts model.ExecutionLogListOptions) ([]*model.ExecutionLog, error)
	ListByOwner(ctx context.Context, owner string, opts model.ExecutionLogListOptions) ([]*model.ExecutionLog, error)
}

// FailStaleParams groups parameters for ExecutionLogReaper.FailStaleInProgress.
type FailStaleParams struct {
	MaxAge    time.Duration
	BatchSize int
	Reason    string
}

// ExecutionLogReaper defines cleanup of executions abandoned by a crashed process.
type ExecutionLogReaper[K model.Kind] interface {
	// FailStaleInProgress finalizes IN_PROGRESS logs older than MaxAge as FAILED.
	// Processes up to BatchSize rows per call. Rows are never deleted.
	FailStaleInProgress(ctx context.Context, params FailStaleParams) (int64, error)
}

// SubscriberStore persists subscribers and their delivered-report counters.
type SubscriberStore interface {
	// Create returns model.ErrSubscriberAlreadyExists on a duplicate username.
	Create(ctx context.Context, req *model.CreateSubscriberRequest) (*model.Subscriber, error)
	// GetByUsername returns model.ErrSubscriberNotFound for an unknown username.
	GetByUsername(ctx context.Context, username string) (*model.Subscriber, error)
	List(ctx context.Context, opts model.SubscriberListOptions) ([]*model.Subscriber, error)
	// Delete removes the subscriber; its job definitions cascade.
	Delete(ctx context.Context, username string) (bool, error)
	// Recount recomputes counters from SUCCESS logs. An empty username recounts everyone.
	// Returns the number of subscribers updated.
	Recount(ctx context.Context, username string) (int64, error)
}

// ActivityReader is the read model over members, projects and tasks.
type ActivityReader interface {
	GetMember(ctx context.Context, username string) (*model.Member, error)
	MemberTaskCounts(ctx context.Context, username string, window model.ReportWindow) (model.TaskCounts, error)
	MemberProjects(ctx context.Context, username string, window model.ReportWindow) ([]model.ProjectContribution, error)
	GetProject(ctx context.Context, id string) (*model.ProjectInfo, error)
	ProjectTaskCounts(ctx context.Context, id string, window model.ReportWindow) (model.TaskCounts, error)
	ProjectMembers(ctx context.Context, id string, window model.ReportWindow) ([]model.MemberContribution, error)
}
