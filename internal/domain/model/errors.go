package model

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the executor, stores and subscriber directory.
var (
	// ErrMissingJobIdentity is returned when an execution context carries no usable job id.
	ErrMissingJobIdentity = errors.New("missing job identity")
	// ErrJobNotFound is returned when a job definition does not exist (or was deleted after scheduling).
	ErrJobNotFound = errors.New("job not found")
	// ErrJobAlreadyExists is returned when a job id is already registered under any kind.
	ErrJobAlreadyExists = errors.New("job already exists")
	// ErrJobAlreadyRunning signals that another execution of the job holds the IN_PROGRESS slot.
	// Callers treat it as a successful no-op.
	ErrJobAlreadyRunning = errors.New("job already running")
	// ErrExecutionLogNotFound is returned when an execution log id does not exist.
	ErrExecutionLogNotFound = errors.New("execution log not found")
	// ErrExecutionAlreadyFinalized is returned when finalizing a log that left IN_PROGRESS.
	ErrExecutionAlreadyFinalized = errors.New("execution log already finalized")
	// ErrSubscriberNotFound is returned when no subscriber has the requested username.
	ErrSubscriberNotFound = errors.New("subscriber not found")
	// ErrSubscriberAlreadyExists is returned when the username is taken.
	ErrSubscriberAlreadyExists = errors.New("subscriber already exists")
	// ErrScheduleConflict is returned when a due job was advanced by someone else first.
	ErrScheduleConflict = errors.New("schedule already advanced")
)

// Stage names a step of the report pipeline for logs, metrics and failure reasons.
type Stage string

const (
	StageIdentity Stage = "identity"
	StageLoadJob  Stage = "load_job"
	StageData     Stage = "data"
	StageTemplate Stage = "template"
	StageDocument Stage = "document"
	StageFinalize Stage = "finalize"
)

// ReportDataUnavailableError reports that the member or project behind a job no longer exists.
type ReportDataUnavailableError struct {
	Kind      ReportKind
	TargetRef string
	Message   string
	Cause     error
}

func (e *ReportDataUnavailableError) Error() string {
	msg := fmt.Sprintf("report data unavailable for %s %q", e.Kind, e.TargetRef)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ReportDataUnavailableError) Unwrap() error { return e.Cause }

// ErrorClass names the error for metric tags.
func (e *ReportDataUnavailableError) ErrorClass() string { return "report_data_unavailable" }

// TemplateRenderError reports a markup template failure, typically a missing data key.
type TemplateRenderError struct {
	Kind    ReportKind
	Key     string
	Message string
	Cause   error
}

func (e *TemplateRenderError) Error() string {
	msg := "template render failed"
	if e.Kind != "" {
		msg += " for " + string(e.Kind)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Key != "" {
		msg += fmt.Sprintf(" (key %q)", e.Key)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *TemplateRenderError) Unwrap() error { return e.Cause }

// ErrorClass names the error for metric tags.
func (e *TemplateRenderError) ErrorClass() string { return "template_render" }

// DocumentRenderError reports a failure converting markup to a document or persisting it.
type DocumentRenderError struct {
	FileName string
	Message  string
	Cause    error
}

func (e *DocumentRenderError) Error() string {
	msg := "document render failed"
	if e.FileName != "" {
		msg += fmt.Sprintf(" for %q", e.FileName)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *DocumentRenderError) Unwrap() error { return e.Cause }

// ErrorClass names the error for metric tags.
func (e *DocumentRenderError) ErrorClass() string { return "document_render" }

// IsStageError reports whether err is one of the typed pipeline stage failures that
// are recorded on the execution log rather than returned to the trigger source.
func IsStageError(err error) bool {
	var (
		dataErr     *ReportDataUnavailableError
		templateErr *TemplateRenderError
		documentErr *DocumentRenderError
	)
	return errors.As(err, &dataErr) || errors.As(err, &templateErr) || errors.As(err, &documentErr)
}
