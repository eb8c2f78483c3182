package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/data/pgxutil"
	"github.com/target/reportd/internal/domain/model"
	apperrors "github.com/target/reportd/internal/errors"
)

const (
	defaultLogListLimit = 50
	maxLogListLimit     = 500

	// Major key 2000 namespaces report reaper locks; the minor key is per kind.
	advisoryLockReportReaperMajor = 2000
)

// ExecutionLogRepo persists execution logs for one report kind and maintains the
// owner's delivered-report counter on SUCCESS.
type ExecutionLogRepo[K model.Kind] struct {
	DB           *sql.DB
	tables       reportTables
	timeProvider TimeProvider
}

var (
	_ core.ExecutionLogStore[model.Personal]  = (*ExecutionLogRepo[model.Personal])(nil)
	_ core.ExecutionLogStore[model.Project]   = (*ExecutionLogRepo[model.Project])(nil)
	_ core.ExecutionLogReaper[model.Personal] = (*ExecutionLogRepo[model.Personal])(nil)
	_ core.ExecutionLogReaper[model.Project]  = (*ExecutionLogRepo[model.Project])(nil)
)

// NewExecutionLogRepo creates a new ExecutionLogRepo instance with the given database connection.
func NewExecutionLogRepo[K model.Kind](db *sql.DB) *ExecutionLogRepo[K] {
	return NewExecutionLogRepoWithTimeProvider[K](db, &RealTimeProvider{})
}

// NewExecutionLogRepoWithTimeProvider creates an ExecutionLogRepo with a custom TimeProvider (useful for testing).
func NewExecutionLogRepoWithTimeProvider[K model.Kind](db *sql.DB, timeProvider TimeProvider) *ExecutionLogRepo[K] {
	return &ExecutionLogRepo[K]{DB: db, tables: tablesFor[K](), timeProvider: timeProvider}
}

const executionLogColumns = `
  id,
  job_id,
  owner_username,
  fire_key,
  started_at,
  ended_at,
  upload_status,
  failure_reason,
  file_ref
`

// CreateInProgress relies on the partial unique index over IN_PROGRESS rows so that
// the check and the insert are a single statement.
func (r *ExecutionLogRepo[K]) CreateInProgress(
	ctx context.Context,
	params model.CreateExecutionLogParams,
) (*model.ExecutionLog, error) {
	if strings.TrimSpace(params.JobID) == "" {
		return nil, ErrJobIDRequired
	}
	startedAt := params.StartedAt
	if startedAt.IsZero() {
		startedAt = r.timeProvider.Now()
	}

	query := `
		INSERT INTO ` + r.tables.logs + ` (id, job_id, owner_username, fire_key, started_at, upload_status)
		VALUES ($1, $2, $3, $4, $5, 'IN_PROGRESS')
		ON CONFLICT (job_id) WHERE upload_status = 'IN_PROGRESS' DO NOTHING
		RETURNING ` + executionLogColumns
	row := r.DB.QueryRowContext(ctx, query,
		uuid.New(), params.JobID, params.OwnerUsername, params.FireKey, startedAt.UTC())
	log, err := scanExecutionLog(row, r.tables.kind)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s job %s: %w", r.tables.kind, params.JobID, model.ErrJobAlreadyRunning)
		}
		return nil, fmt.Errorf("create %s execution log for %s: %w", r.tables.kind, params.JobID, err)
	}
	return log, nil
}

// Finalize moves the log out of IN_PROGRESS. On SUCCESS the owner's counter is
// incremented in the same transaction.
func (r *ExecutionLogRepo[K]) Finalize(
	ctx context.Context,
	params model.FinalizeExecutionParams,
) (*model.ExecutionLog, error) {
	if err := validateFinalize(params); err != nil {
		return nil, err
	}

	var out *model.ExecutionLog
	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{Fn: func(tx *sql.Tx) error {
		query := `
			UPDATE ` + r.tables.logs + `
			SET upload_status = $2, ended_at = GREATEST($3, started_at), failure_reason = $4, file_ref = $5
			WHERE id = $1 AND upload_status = 'IN_PROGRESS'
			RETURNING ` + executionLogColumns
		row := tx.QueryRowContext(ctx, query,
			params.ID,
			string(params.Status),
			params.EndedAt.UTC(),
			nullIfEmpty(params.FailureReason),
			nullIfEmpty(params.FileRef),
		)
		log, err := scanExecutionLog(row, r.tables.kind)
		if errors.Is(err, sql.ErrNoRows) {
			return r.finalizeMissError(ctx, tx, params.ID)
		}
		if err != nil {
			return err
		}

		if log.UploadStatus == model.UploadStatusSuccess {
			counterQuery := `UPDATE subscribers SET ` + r.tables.counterColumn + ` = ` +
				r.tables.counterColumn + ` + 1, updated_at = $2 WHERE username = $1`
			if _, err := tx.ExecContext(ctx, counterQuery, log.OwnerUsername, r.timeProvider.Now().UTC()); err != nil {
				return fmt.Errorf("increment %s: %w", r.tables.counterColumn, err)
			}
		}
		out = log
		return nil
	}})
	if err != nil {
		return nil, fmt.Errorf("finalize %s execution log %s: %w", r.tables.kind, params.ID, apperrors.MapDBError(err))
	}
	return out, nil
}

func (r *ExecutionLogRepo[K]) finalizeMissError(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	var status string
	err := tx.QueryRowContext(ctx, `SELECT upload_status FROM `+r.tables.logs+` WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrExecutionLogNotFound
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w (status %s)", model.ErrExecutionAlreadyFinalized, status)
}

func validateFinalize(params model.FinalizeExecutionParams) error {
	switch params.Status {
	case model.UploadStatusSuccess:
		if strings.TrimSpace(params.FileRef) == "" {
			return errors.New("finalize SUCCESS requires a file reference")
		}
	case model.UploadStatusFailed:
		if strings.TrimSpace(params.FailureReason) == "" {
			return errors.New("finalize FAILED requires a failure reason")
		}
	default:
		return fmt.Errorf("cannot finalize execution log to status %q", params.Status)
	}
	if params.EndedAt.IsZero() {
		return errors.New("finalize requires ended_at")
	}
	return nil
}

// GetByID returns model.ErrExecutionLogNotFound for an unknown id.
func (r *ExecutionLogRepo[K]) GetByID(ctx context.Context, id uuid.UUID) (*model.ExecutionLog, error) {
	query := `SELECT ` + executionLogColumns + ` FROM ` + r.tables.logs + ` WHERE id = $1`
	row, err := pgxutil.CollectOne(ctx, r.DB, pgx.RowToStructByName[executionLogRow], query, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s execution log %s: %w", r.tables.kind, id, model.ErrExecutionLogNotFound)
		}
		return nil, fmt.Errorf("get %s execution log %s: %w", r.tables.kind, id, err)
	}
	return row.toDomain(r.tables.kind), nil
}

// ListByJob returns the job's logs, newest first.
func (r *ExecutionLogRepo[K]) ListByJob(
	ctx context.Context,
	jobID string,
	opts model.ExecutionLogListOptions,
) ([]*model.ExecutionLog, error) {
	return r.list(ctx, "job_id", jobID, opts)
}

// ListByOwner returns the owner's logs across all their jobs, newest first.
func (r *ExecutionLogRepo[K]) ListByOwner(
	ctx context.Context,
	owner string,
	opts model.ExecutionLogListOptions,
) ([]*model.ExecutionLog, error) {
	return r.list(ctx, "owner_username", owner, opts)
}

// list filters on column, which is always one of the two literals above.
func (r *ExecutionLogRepo[K]) list(
	ctx context.Context,
	column, value string,
	opts model.ExecutionLogListOptions,
) ([]*model.ExecutionLog, error) {
	var status *string
	if opts.Status != nil {
		if !opts.Status.Valid() {
			return nil, fmt.Errorf("invalid upload status: %q", *opts.Status)
		}
		s := string(*opts.Status)
		status = &s
	}

	query := `SELECT ` + executionLogColumns + ` FROM ` + r.tables.logs + `
		WHERE ` + column + ` = $1 AND ($2::text IS NULL OR upload_status = $2)
		ORDER BY started_at DESC, id DESC
		LIMIT $3 OFFSET $4`
	rows, err := pgxutil.Collect(ctx, r.DB, pgx.RowToStructByName[executionLogRow], query,
		value, status, clampLimit(opts.Limit, defaultLogListLimit, maxLogListLimit), max(opts.Offset, 0))
	if err != nil {
		return nil, fmt.Errorf("list %s execution logs by %s: %w", r.tables.kind, column, err)
	}
	out := make([]*model.ExecutionLog, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain(r.tables.kind))
	}
	return out, nil
}

// FailStaleInProgress marks IN_PROGRESS logs started more than MaxAge ago as FAILED.
// Uses an advisory lock per kind so concurrent reapers do not contend on the same rows.
func (r *ExecutionLogRepo[K]) FailStaleInProgress(ctx context.Context, params core.FailStaleParams) (int64, error) {
	if params.BatchSize <= 0 {
		return 0, errors.New("batch size must be greater than zero")
	}
	if params.MaxAge <= 0 {
		return 0, errors.New("max age must be greater than zero")
	}
	reason := params.Reason
	if strings.TrimSpace(reason) == "" {
		reason = "execution abandoned"
	}

	var rowsAffected int64
	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{
		Fn: func(tx *sql.Tx) error {
			var locked bool
			if err := tx.QueryRowContext(ctx, "SELECT pg_try_advisory_xact_lock($1, $2)",
				advisoryLockReportReaperMajor, r.reaperLockMinor()).Scan(&locked); err != nil {
				return fmt.Errorf("acquire advisory lock: %w", err)
			}
			if !locked {
				return nil
			}

			currentTime := r.timeProvider.Now().UTC()
			cutoffTime := currentTime.Add(-params.MaxAge)

			res, err := tx.ExecContext(ctx, `
				UPDATE `+r.tables.logs+`
				SET upload_status = 'FAILED',
					failure_reason = $1,
					ended_at = GREATEST($2, started_at)
				WHERE id IN (
					SELECT id FROM `+r.tables.logs+`
					WHERE upload_status = 'IN_PROGRESS'
					  AND started_at < $3
					ORDER BY started_at
					LIMIT $4
					FOR UPDATE SKIP LOCKED
				)
			`, reason, currentTime, cutoffTime, params.BatchSize)
			if err != nil {
				return fmt.Errorf("fail stale %s executions: %w", r.tables.kind, err)
			}

			ra, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected: %w", err)
			}
			rowsAffected = ra
			return nil
		},
	})
	if err != nil {
		return 0, err
	}
	return rowsAffected, nil
}

func (r *ExecutionLogRepo[K]) reaperLockMinor() int {
	if r.tables.kind == model.ReportKindProject {
		return 2
	}
	return 1
}

// executionLogRow represents the database row structure shared by both log tables.
type executionLogRow struct {
	ID            uuid.UUID  `db:"id"`
	JobID         string     `db:"job_id"`
	OwnerUsername string     `db:"owner_username"`
	FireKey       string     `db:"fire_key"`
	StartedAt     time.Time  `db:"started_at"`
	EndedAt       *time.Time `db:"ended_at"`
	UploadStatus  string     `db:"upload_status"`
	FailureReason *string    `db:"failure_reason"`
	FileRef       *string    `db:"file_ref"`
}

func (r *executionLogRow) toDomain(kind model.ReportKind) *model.ExecutionLog {
	return &model.ExecutionLog{
		ID:            r.ID,
		JobID:         r.JobID,
		Kind:          kind,
		OwnerUsername: r.OwnerUsername,
		FireKey:       r.FireKey,
		StartedAt:     r.StartedAt.UTC(),
		EndedAt:       utcPtr(r.EndedAt),
		UploadStatus:  model.UploadStatus(r.UploadStatus),
		FailureReason: r.FailureReason,
		FileRef:       r.FileRef,
	}
}

func scanExecutionLog(row rowScanner, kind model.ReportKind) (*model.ExecutionLog, error) {
	var dbRow executionLogRow
	if err := row.Scan(
		&dbRow.ID,
		&dbRow.JobID,
		&dbRow.OwnerUsername,
		&dbRow.FireKey,
		&dbRow.StartedAt,
		&dbRow.EndedAt,
		&dbRow.UploadStatus,
		&dbRow.FailureReason,
		&dbRow.FileRef,
	); err != nil {
		return nil, err
	}
	return dbRow.toDomain(kind), nil
}

func nullIfEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
