package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// reKeyField extracts the column list from "Key (job_id)=(weekly) already exists.".
var reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)

// checkConstraints describes the named CHECK constraints of the report schema.
// Table prefixes (personal_, project_) are stripped before lookup.
var checkConstraints = map[string]struct{ field, message string }{
	"report_jobs_schedule_check": {"schedule", "exactly one of cron expression or fire time must be set"},
	"report_jobs_window_check":   {"window", "report window start must not be after its end"},
	"report_logs_ended_check":    {"ended_at", "only IN_PROGRESS executions may lack an end time"},
	"report_logs_order_check":    {"ended_at", "execution end time precedes its start time"},
	"report_logs_failed_check":   {"failure_reason", "a FAILED execution needs a failure reason"},
	"report_logs_success_check":  {"file_ref", "a SUCCESS execution needs a file reference"},
}

// MapDBError maps database errors to AppError instances:
//   - context deadline/cancel → Timeout/Canceled
//   - no rows → NotFound
//   - unique violation → Conflict
//   - foreign key violation → ForeignKey
//   - check and NOT NULL violations → Validation
//
// Anything else is returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, "database call timed out")
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, "database call canceled")
	case errors.Is(err, pgx.ErrNoRows):
		return Wrap(err, ErrCodeNotFound, "row not found")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}
	return err
}

func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		e := Conflict(describeTable(pgErr.TableName) + " already exists")
		e.Field = uniqueField(pgErr)
		return causedBy(e, pgErr)
	case pgerrcode.ForeignKeyViolation:
		return &AppError{Code: ErrCodeForeignKey, Message: foreignKeyMessage(pgErr), Cause: pgErr}
	case pgerrcode.CheckViolation:
		return mapCheckViolation(pgErr)
	case pgerrcode.NotNullViolation:
		return causedBy(ValidationField(pgErr.ColumnName, "required value is missing"), pgErr)
	default:
		return &AppError{Code: ErrCodeInternal, Message: "database error", Cause: pgErr}
	}
}

func uniqueField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return m[1]
	}
	return ""
}

func foreignKeyMessage(pgErr *pgconn.PgError) string {
	name := strings.ToLower(pgErr.ConstraintName)
	switch {
	case strings.Contains(name, "owner_username"):
		return "owning subscriber does not exist"
	case strings.HasSuffix(name, "_id_fkey"):
		return "job id is not registered"
	case strings.Contains(pgErr.Detail, "is still referenced"):
		return describeTable(pgErr.TableName) + " is still referenced"
	default:
		return "referenced row does not exist"
	}
}

func mapCheckViolation(pgErr *pgconn.PgError) error {
	key := strings.TrimPrefix(strings.TrimPrefix(pgErr.ConstraintName, "personal_"), "project_")
	if c, ok := checkConstraints[key]; ok {
		return causedBy(ValidationField(c.field, c.message), pgErr)
	}
	return causedBy(ValidationField(pgErr.ColumnName, "value out of range"), pgErr)
}

func causedBy(e *AppError, cause error) *AppError {
	e.Cause = cause
	return e
}

// describeTable turns a table name into the noun used in messages.
func describeTable(table string) string {
	switch strings.ToLower(strings.TrimSpace(table)) {
	case "subscribers":
		return "subscriber"
	case "report_job_keys", "personal_report_jobs", "project_report_jobs":
		return "report job"
	case "personal_report_logs", "project_report_logs":
		return "execution log"
	case "":
		return "row"
	default:
		return strings.ReplaceAll(table, "_", " ")
	}
}
