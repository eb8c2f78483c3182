package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/data/pgxutil"
	"github.com/target/reportd/internal/domain/model"
)

// ScheduleRepo provides the scheduler-side operations on one kind's job table.
type ScheduleRepo[K model.Kind] struct {
	DB           *sql.DB
	tables       reportTables
	timeProvider TimeProvider
}

var (
	_ core.ScheduleStore[model.Personal] = (*ScheduleRepo[model.Personal])(nil)
	_ core.ScheduleStore[model.Project]  = (*ScheduleRepo[model.Project])(nil)
)

// NewScheduleRepo creates a new ScheduleRepo instance with the given database connection.
func NewScheduleRepo[K model.Kind](db *sql.DB) *ScheduleRepo[K] {
	return NewScheduleRepoWithTimeProvider[K](db, &RealTimeProvider{})
}

// NewScheduleRepoWithTimeProvider creates a ScheduleRepo with a custom TimeProvider (useful for testing).
func NewScheduleRepoWithTimeProvider[K model.Kind](db *sql.DB, timeProvider TimeProvider) *ScheduleRepo[K] {
	return &ScheduleRepo[K]{DB: db, tables: tablesFor[K](), timeProvider: timeProvider}
}

// FindDueTx returns due jobs ordered by how late they are. It must be paired with
// AdvanceTx within the same transaction so SKIP LOCKED holds across selection and update.
func (r *ScheduleRepo[K]) FindDueTx(
	ctx context.Context,
	tx *sql.Tx,
	now time.Time,
	limit int,
) ([]model.JobDefinition, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrLimitRequired, limit)
	}

	query := `
		SELECT ` + reportJobColumns + `
		FROM ` + r.tables.jobs + `
		WHERE next_fire_at IS NOT NULL AND next_fire_at <= $1
		ORDER BY next_fire_at ASC, id ASC
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`

	rows, err := tx.QueryContext(ctx, query, now.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("query due %s jobs: %w", r.tables.kind, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			// best-effort close; nothing further to do
			_ = closeErr
		}
	}()

	var jobs []model.JobDefinition
	for rows.Next() {
		job, scanErr := scanReportJob(rows, r.tables.kind)
		if scanErr != nil {
			return nil, fmt.Errorf("scan due %s job: %w", r.tables.kind, scanErr)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due %s jobs: %w", r.tables.kind, err)
	}
	return jobs, nil
}

// AdvanceTx moves the job to its next fire, guarded by the expected current next_fire_at.
func (r *ScheduleRepo[K]) AdvanceTx(
	ctx context.Context,
	tx *sql.Tx,
	params model.AdvanceScheduleParams,
) (bool, error) {
	query := `
		UPDATE ` + r.tables.jobs + `
		SET next_fire_at = $3,
		    last_fired_at = COALESCE($4, last_fired_at),
		    updated_at = $5
		WHERE id = $1 AND next_fire_at = $2
	`
	res, err := tx.ExecContext(ctx, query,
		params.ID,
		params.ExpectedNextFireAt.UTC(),
		utcPtr(params.NextFireAt),
		utcPtr(params.FiredAt),
		r.timeProvider.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("advance %s job %s: %w", r.tables.kind, params.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return n > 0, nil
}

// TryLockJobTx takes pg_try_advisory_xact_lock on the kind-qualified job id.
func (r *ScheduleRepo[K]) TryLockJobTx(ctx context.Context, tx *sql.Tx, jobID string) (bool, error) {
	var locked bool
	key := fnvHash(string(r.tables.kind) + ":" + jobID)
	if err := tx.QueryRowContext(ctx, "SELECT pg_try_advisory_xact_lock($1)", key).Scan(&locked); err != nil {
		return false, fmt.Errorf("acquire advisory lock for %s job %s: %w", r.tables.kind, jobID, err)
	}
	return locked, nil
}

// WithTx runs fn in a single transaction.
func (r *ScheduleRepo[K]) WithTx(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	return pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{Fn: func(tx *sql.Tx) error {
		return fn(ctx, tx)
	}})
}
