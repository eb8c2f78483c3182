package model

import (
	"time"

	"github.com/google/uuid"
)

// UploadStatus is the outcome marker of a single execution.
type UploadStatus string

const (
	UploadStatusInProgress UploadStatus = "IN_PROGRESS"
	UploadStatusSuccess    UploadStatus = "SUCCESS"
	UploadStatusFailed     UploadStatus = "FAILED"
)

// Valid returns true if the status is one of the three known values.
func (s UploadStatus) Valid() bool {
	return s == UploadStatusInProgress || s == UploadStatusSuccess || s == UploadStatusFailed
}

// IsTerminal reports whether no further transition is allowed.
func (s UploadStatus) IsTerminal() bool {
	return s == UploadStatusSuccess || s == UploadStatusFailed
}

// CanTransitionTo reports whether s -> next is a legal move.
func (s UploadStatus) CanTransitionTo(next UploadStatus) bool {
	return s == UploadStatusInProgress && next.IsTerminal()
}

// ExecutionLog is the audit record of one attempt to run a job.
type ExecutionLog struct {
	ID            uuid.UUID    `json:"id"`
	JobID         string       `json:"job_id"`
	Kind          ReportKind   `json:"kind"`
	OwnerUsername string       `json:"owner_username"`
	FireKey       string       `json:"fire_key,omitempty"`
	StartedAt     time.Time    `json:"started_at"`
	EndedAt       *time.Time   `json:"ended_at,omitempty"`
	UploadStatus  UploadStatus `json:"upload_status"`
	FailureReason *string      `json:"failure_reason,omitempty"`
	FileRef       *string      `json:"file_ref,omitempty"`
}

// CreateExecutionLogParams starts a new IN_PROGRESS log.
type CreateExecutionLogParams struct {
	JobID         string
	OwnerUsername string
	FireKey       string
	StartedAt     time.Time
}

// FinalizeExecutionParams moves an IN_PROGRESS log to a terminal status.
type FinalizeExecutionParams struct {
	ID            uuid.UUID
	Status        UploadStatus
	EndedAt       time.Time
	FailureReason string
	FileRef       string
}

// ExecutionLogListOptions pages log listings, newest first.
type ExecutionLogListOptions struct {
	Limit  int
	Offset int
	Status *UploadStatus
}

// ExecutionOutcome summarises what one trigger of the executor did.
type ExecutionOutcome struct {
	JobID  string       `json:"job_id"`
	Kind   ReportKind   `json:"kind"`
	LogID  uuid.UUID    `json:"log_id"`
	Status UploadStatus `json:"status,omitempty"`
	// Skipped is true when another execution already held the IN_PROGRESS slot.
	Skipped       bool   `json:"skipped"`
	FailedStage   Stage  `json:"failed_stage,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
	FileRef       string `json:"file_ref,omitempty"`
}
