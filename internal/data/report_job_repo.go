package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/data/pgxutil"
	"github.com/target/reportd/internal/domain/model"
	apperrors "github.com/target/reportd/internal/errors"
)

const (
	defaultJobListLimit = 50
	maxJobListLimit     = 500
)

// JobRepo provides database operations for the job definitions of one report kind.
type JobRepo[K model.Kind] struct {
	DB           *sql.DB
	tables       reportTables
	timeProvider TimeProvider
}

var (
	_ core.JobStore[model.Personal] = (*JobRepo[model.Personal])(nil)
	_ core.JobStore[model.Project]  = (*JobRepo[model.Project])(nil)
)

// NewJobRepo creates a new JobRepo instance with the given database connection.
func NewJobRepo[K model.Kind](db *sql.DB) *JobRepo[K] {
	return NewJobRepoWithTimeProvider[K](db, &RealTimeProvider{})
}

// NewJobRepoWithTimeProvider creates a JobRepo with a custom TimeProvider (useful for testing).
func NewJobRepoWithTimeProvider[K model.Kind](db *sql.DB, timeProvider TimeProvider) *JobRepo[K] {
	return &JobRepo[K]{DB: db, tables: tablesFor[K](), timeProvider: timeProvider}
}

const reportJobColumns = `
  id,
  target_ref,
  owner_username,
  schedule_cron,
  fire_at,
  timezone,
  window_start,
  window_end,
  trailing_days,
  next_fire_at,
  last_fired_at,
  created_at,
  updated_at
`

// Create inserts a job definition and reserves its id in report_job_keys.
func (r *JobRepo[K]) Create(ctx context.Context, params model.NewJobParams) (*model.JobDefinition, error) {
	if strings.TrimSpace(params.ID) == "" {
		return nil, ErrJobIDRequired
	}
	now := r.timeProvider.Now().UTC()

	var job *model.JobDefinition
	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{Fn: func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO report_job_keys (job_id, kind, owner_username, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (job_id) DO NOTHING`,
			params.ID, string(r.tables.kind), params.OwnerUsername, now)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		} else if n == 0 {
			return model.ErrJobAlreadyExists
		}

		query := `
			INSERT INTO ` + r.tables.jobs + ` (
				id, target_ref, owner_username, schedule_cron, fire_at, timezone,
				window_start, window_end, trailing_days, next_fire_at, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
			RETURNING ` + reportJobColumns
		row := tx.QueryRowContext(ctx, query,
			params.ID,
			params.TargetRef,
			params.OwnerUsername,
			cronArg(params.Schedule.CronExpr),
			utcPtr(params.Schedule.FireAt),
			params.Schedule.Timezone,
			params.Window.Start.UTC(),
			params.Window.End.UTC(),
			params.TrailingDays,
			utcPtr(params.NextFireAt),
			now,
		)
		created, err := scanReportJob(row, r.tables.kind)
		if err != nil {
			return err
		}
		job = created
		return nil
	}})
	if err != nil {
		return nil, fmt.Errorf("create %s job %s: %w", r.tables.kind, params.ID, mapJobWriteError(err))
	}
	return job, nil
}

// GetByID returns model.ErrJobNotFound when the id is unknown for this kind.
func (r *JobRepo[K]) GetByID(ctx context.Context, id string) (*model.JobDefinition, error) {
	query := `SELECT ` + reportJobColumns + ` FROM ` + r.tables.jobs + ` WHERE id = $1`
	row, err := pgxutil.CollectOne(ctx, r.DB, pgx.RowToStructByName[reportJobRow], query, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s job %s: %w", r.tables.kind, id, model.ErrJobNotFound)
		}
		return nil, fmt.Errorf("get %s job %s: %w", r.tables.kind, id, err)
	}
	return row.toDomain(r.tables.kind), nil
}

// ListByOwner lists the owner's jobs, oldest first.
func (r *JobRepo[K]) ListByOwner(
	ctx context.Context,
	owner string,
	opts model.JobListOptions,
) ([]*model.JobDefinition, error) {
	query := `SELECT ` + reportJobColumns + ` FROM ` + r.tables.jobs + `
		WHERE owner_username = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3`
	rows, err := pgxutil.Collect(ctx, r.DB, pgx.RowToStructByName[reportJobRow], query,
		owner, clampLimit(opts.Limit, defaultJobListLimit, maxJobListLimit), max(opts.Offset, 0))
	if err != nil {
		return nil, fmt.Errorf("list %s jobs for %s: %w", r.tables.kind, owner, err)
	}
	out := make([]*model.JobDefinition, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain(r.tables.kind))
	}
	return out, nil
}

// UpdateSchedule replaces the schedule and the derived next fire time.
func (r *JobRepo[K]) UpdateSchedule(
	ctx context.Context,
	params core.UpdateJobScheduleParams,
) (*model.JobDefinition, error) {
	query := `
		UPDATE ` + r.tables.jobs + `
		SET schedule_cron = $2, fire_at = $3, timezone = $4, next_fire_at = $5, updated_at = $6
		WHERE id = $1
		RETURNING ` + reportJobColumns
	row := r.DB.QueryRowContext(ctx, query,
		params.ID,
		cronArg(params.Schedule.CronExpr),
		utcPtr(params.Schedule.FireAt),
		params.Schedule.Timezone,
		utcPtr(params.NextFireAt),
		r.timeProvider.Now().UTC(),
	)
	job, err := scanReportJob(row, r.tables.kind)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s job %s: %w", r.tables.kind, params.ID, model.ErrJobNotFound)
		}
		return nil, fmt.Errorf("update %s job schedule %s: %w", r.tables.kind, params.ID, apperrors.MapDBError(err))
	}
	return job, nil
}

// Delete releases the job id; the definition row cascades. Execution logs are untouched.
func (r *JobRepo[K]) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM report_job_keys WHERE job_id = $1 AND kind = $2`, id, string(r.tables.kind))
	if err != nil {
		return false, fmt.Errorf("delete %s job %s: %w", r.tables.kind, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return n > 0, nil
}

// mapJobWriteError attaches the domain sentinel to mapped constraint failures so
// callers can match with errors.Is while the AppError code still reaches the CLI.
func mapJobWriteError(err error) error {
	mapped := apperrors.MapDBError(err)
	switch {
	case apperrors.IsConflict(mapped):
		return errors.Join(model.ErrJobAlreadyExists, mapped)
	case apperrors.IsForeignKey(mapped):
		return errors.Join(model.ErrSubscriberNotFound, mapped)
	default:
		return mapped
	}
}

// reportJobRow represents the database row structure shared by both job tables.
type reportJobRow struct {
	ID            string     `db:"id"`
	TargetRef     string     `db:"target_ref"`
	OwnerUsername string     `db:"owner_username"`
	ScheduleCron  *string    `db:"schedule_cron"`
	FireAt        *time.Time `db:"fire_at"`
	Timezone      string     `db:"timezone"`
	WindowStart   time.Time  `db:"window_start"`
	WindowEnd     time.Time  `db:"window_end"`
	TrailingDays  int        `db:"trailing_days"`
	NextFireAt    *time.Time `db:"next_fire_at"`
	LastFiredAt   *time.Time `db:"last_fired_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

func (r *reportJobRow) toDomain(kind model.ReportKind) *model.JobDefinition {
	return &model.JobDefinition{
		ID:            r.ID,
		Kind:          kind,
		TargetRef:     r.TargetRef,
		OwnerUsername: r.OwnerUsername,
		Schedule: model.Schedule{
			CronExpr: r.ScheduleCron,
			FireAt:   utcPtr(r.FireAt),
			Timezone: r.Timezone,
		},
		Window:       model.ReportWindow{Start: r.WindowStart.UTC(), End: r.WindowEnd.UTC()},
		TrailingDays: r.TrailingDays,
		NextFireAt:   utcPtr(r.NextFireAt),
		LastFiredAt:  utcPtr(r.LastFiredAt),
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanReportJob scans a database/sql row in reportJobColumns order.
func scanReportJob(row rowScanner, kind model.ReportKind) (*model.JobDefinition, error) {
	var dbRow reportJobRow
	if err := row.Scan(
		&dbRow.ID,
		&dbRow.TargetRef,
		&dbRow.OwnerUsername,
		&dbRow.ScheduleCron,
		&dbRow.FireAt,
		&dbRow.Timezone,
		&dbRow.WindowStart,
		&dbRow.WindowEnd,
		&dbRow.TrailingDays,
		&dbRow.NextFireAt,
		&dbRow.LastFiredAt,
		&dbRow.CreatedAt,
		&dbRow.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return dbRow.toDomain(kind), nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}

func cronArg(expr *string) *string {
	if expr == nil {
		return nil
	}
	v := strings.TrimSpace(*expr)
	if v == "" {
		return nil
	}
	return &v
}
