package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapDBError_NilError(t *testing.T) {
	if err := MapDBError(nil); err != nil {
		t.Errorf("MapDBError(nil) = %v, want nil", err)
	}
}

func TestMapDBError_NonDatabaseErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
	}{
		{name: "deadline exceeded", err: fmt.Errorf("query: %w", context.DeadlineExceeded), wantCode: ErrCodeTimeout},
		{name: "canceled", err: context.Canceled, wantCode: ErrCodeCanceled},
		{name: "no rows", err: pgx.ErrNoRows, wantCode: ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.err)
			if got := GetCode(err); got != tt.wantCode {
				t.Errorf("MapDBError() code = %q, want %q", got, tt.wantCode)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("MapDBError() lost the cause %v", tt.err)
			}
		})
	}
}

func TestMapDBError_StandardErrorPassesThrough(t *testing.T) {
	orig := errors.New("disk on fire")
	if got := MapDBError(orig); got != orig { //nolint:errorlint // identity is the point
		t.Errorf("MapDBError() = %v, want original error", got)
	}
}

func TestMapDBError_PgErrors(t *testing.T) {
	tests := []struct {
		name        string
		pgErr       *pgconn.PgError
		wantCode    ErrorCode
		wantField   string
		wantMessage string
	}{
		{
			name: "job id taken",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				TableName:      "report_job_keys",
				ConstraintName: "report_job_keys_pkey",
				Detail:         "Key (job_id)=(weekly) already exists.",
			},
			wantCode:    ErrCodeConflict,
			wantField:   "job_id",
			wantMessage: "report job already exists",
		},
		{
			name:        "unique with column metadata",
			pgErr:       &pgconn.PgError{Code: pgerrcode.UniqueViolation, TableName: "subscribers", ColumnName: "username"},
			wantCode:    ErrCodeConflict,
			wantField:   "username",
			wantMessage: "subscriber already exists",
		},
		{
			name: "missing owner",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.ForeignKeyViolation,
				TableName:      "personal_report_jobs",
				ConstraintName: "personal_report_jobs_owner_username_fkey",
			},
			wantCode:    ErrCodeForeignKey,
			wantMessage: "owning subscriber does not exist",
		},
		{
			name: "unregistered job id",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.ForeignKeyViolation,
				ConstraintName: "project_report_jobs_id_fkey",
			},
			wantCode:    ErrCodeForeignKey,
			wantMessage: "job id is not registered",
		},
		{
			name: "schedule check",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.CheckViolation,
				ConstraintName: "project_report_jobs_schedule_check",
			},
			wantCode:    ErrCodeValidation,
			wantField:   "schedule",
			wantMessage: "exactly one of cron expression or fire time must be set",
		},
		{
			name: "log order check",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.CheckViolation,
				ConstraintName: "personal_report_logs_order_check",
			},
			wantCode:    ErrCodeValidation,
			wantField:   "ended_at",
			wantMessage: "execution end time precedes its start time",
		},
		{
			name: "unnamed column check",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.CheckViolation,
				ConstraintName: "subscribers_personal_report_count_check",
				ColumnName:     "personal_report_count",
			},
			wantCode:    ErrCodeValidation,
			wantField:   "personal_report_count",
			wantMessage: "value out of range",
		},
		{
			name:        "not null",
			pgErr:       &pgconn.PgError{Code: pgerrcode.NotNullViolation, ColumnName: "email"},
			wantCode:    ErrCodeValidation,
			wantField:   "email",
			wantMessage: "required value is missing",
		},
		{
			name:        "anything else",
			pgErr:       &pgconn.PgError{Code: pgerrcode.DeadlockDetected},
			wantCode:    ErrCodeInternal,
			wantMessage: "database error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(fmt.Errorf("exec: %w", tt.pgErr))

			var appErr *AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("MapDBError() = %T, want *AppError", err)
			}
			if appErr.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", appErr.Code, tt.wantCode)
			}
			if appErr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", appErr.Field, tt.wantField)
			}
			if appErr.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", appErr.Message, tt.wantMessage)
			}
			var pgErr *pgconn.PgError
			if !errors.As(err, &pgErr) {
				t.Error("cause should still unwrap to *pgconn.PgError")
			}
		})
	}
}

func TestDescribeTable(t *testing.T) {
	tests := map[string]string{
		"subscribers":          "subscriber",
		"project_report_jobs":  "report job",
		"personal_report_logs": "execution log",
		"":                     "row",
		"project_members":      "project members",
	}
	for table, want := range tests {
		if got := describeTable(table); got != want {
			t.Errorf("describeTable(%q) = %q, want %q", table, got, want)
		}
	}
}
