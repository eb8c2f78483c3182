// Package core defines the ports of the report subsystem and the small services
// that sit directly on top of them.
package core

import (
	"context"
	"database/sql"
	"time"

	"github.com/target/reportd/internal/domain/model"
	"github.com/target/reportd/internal/domain/report"
)

// ScheduleStore defines the scheduler-side operations on job definitions of one kind.
// It provides concurrency-safe operations for multi-replica schedulers.
type ScheduleStore[K model.Kind] interface {
	// FindDueTx returns jobs with next_fire_at <= now, oldest first.
	// Uses FOR UPDATE SKIP LOCKED; rows remain locked until tx ends.
	FindDueTx(ctx context.Context, tx *sql.Tx, now time.Time, limit int) ([]model.JobDefinition, error)

	// AdvanceTx sets next_fire_at (and last_fired_at when FiredAt is set) only if the
	// row still has ExpectedNextFireAt. Returns false when nothing was updated.
	AdvanceTx(ctx context.Context, tx *sql.Tx, params model.AdvanceScheduleParams) (bool, error)

	// TryLockJobTx attempts a transaction-scoped advisory lock for the given job id.
	// Uses an FNV-1a 64-bit hash of kind and id for the lock key; the lock is
	// released when tx ends. Returns false when another session holds it.
	TryLockJobTx(ctx context.Context, tx *sql.Tx, jobID string) (bool, error)

	// WithTx runs fn in a single transaction.
	WithTx(ctx context.Context, fn func(context.Context, *sql.Tx) error) error
}

// ReportScheduler is the trigger source for one kind.
type ReportScheduler interface {
	// Tick advances every due job and returns the fires that must be dispatched.
	Tick(ctx context.Context, now time.Time) ([]Fire, error)
	// Kind reports which table pair this scheduler drives.
	Kind() model.ReportKind
}

// ReportExecutor runs one trigger of a report job of a single kind.
type ReportExecutor interface {
	Kind() model.ReportKind
	// Execute returns an error only for failures that happen before an execution
	// log exists (missing identity, unknown job) or when the log itself cannot be written.
	Execute(ctx context.Context, ec report.ExecutionContext) (*model.ExecutionOutcome, error)
}

// Fire is a single scheduled execution waiting for dispatch.
type Fire struct {
	JobID   string
	Kind    model.ReportKind
	FireKey string
	DueAt   time.Time
	FiredAt time.Time
}

// SchedulerConfig holds configuration for the report scheduler.
type SchedulerConfig struct {
	BatchSize        int                 `json:"batch_size"`
	MisfirePolicy    model.MisfirePolicy `json:"misfire_policy"`
	MisfireThreshold time.Duration       `json:"misfire_threshold"`
}

// DefaultSchedulerConfig returns a SchedulerConfig with sensible defaults.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		BatchSize:        25,
		MisfirePolicy:    model.MisfirePolicyFireOnce,
		MisfireThreshold: time.Minute,
	}
}
