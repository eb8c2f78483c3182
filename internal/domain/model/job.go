package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Schedule is either a recurring cron expression or a single fire time. Exactly one is set.
type Schedule struct {
	CronExpr *string    `json:"cron_expr,omitempty"`
	FireAt   *time.Time `json:"fire_at,omitempty"`
	// Timezone is an IANA name used to evaluate CronExpr. Empty means UTC.
	Timezone string `json:"timezone,omitempty"`
}

// IsRecurring reports whether the schedule is cron based.
func (s Schedule) IsRecurring() bool {
	return s.CronExpr != nil && strings.TrimSpace(*s.CronExpr) != ""
}

// Validate checks that exactly one trigger form is present.
func (s Schedule) Validate() error {
	hasCron := s.IsRecurring()
	hasFireAt := s.FireAt != nil && !s.FireAt.IsZero()
	switch {
	case hasCron && hasFireAt:
		return errors.New("schedule must set either cron_expr or fire_at, not both")
	case !hasCron && !hasFireAt:
		return errors.New("schedule requires cron_expr or fire_at")
	}
	return nil
}

// Location resolves the schedule timezone, defaulting to UTC.
func (s Schedule) Location() (*time.Location, error) {
	tz := strings.TrimSpace(s.Timezone)
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	return loc, nil
}

// ReportWindow is the closed time range a report covers.
type ReportWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate enforces start <= end.
func (w ReportWindow) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return errors.New("report window requires start and end")
	}
	if w.Start.After(w.End) {
		return fmt.Errorf("report window start %s is after end %s",
			w.Start.UTC().Format(time.RFC3339), w.End.UTC().Format(time.RFC3339))
	}
	return nil
}

// JobDefinition is a scheduled unit of report work.
type JobDefinition struct {
	ID            string       `json:"id"`
	Kind          ReportKind   `json:"kind"`
	TargetRef     string       `json:"target_ref"`
	OwnerUsername string       `json:"owner_username"`
	Schedule      Schedule     `json:"schedule"`
	Window        ReportWindow `json:"window"`
	// TrailingDays > 0 replaces Window with [now-TrailingDays, now] at execution time.
	TrailingDays int        `json:"trailing_days"`
	NextFireAt   *time.Time `json:"next_fire_at,omitempty"`
	LastFiredAt  *time.Time `json:"last_fired_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateJobRequest is the input to create a job definition.
// Kind is implied by the store the request is sent to.
type CreateJobRequest struct {
	// ID is optional; a UUID is generated when empty.
	ID            string     `json:"id"             validate:"omitempty,max=128,printascii,jobid"`
	TargetRef     string     `json:"target_ref"     validate:"required,max=255"`
	OwnerUsername string     `json:"owner_username" validate:"required,max=255"`
	CronExpr      *string    `json:"cron_expr"      validate:"required_without=FireAt,excluded_with=FireAt"`
	FireAt        *time.Time `json:"fire_at"        validate:"required_without=CronExpr,excluded_with=CronExpr"`
	Timezone      string     `json:"timezone"       validate:"omitempty,timezone"`
	WindowStart   time.Time  `json:"window_start"   validate:"required"`
	WindowEnd     time.Time  `json:"window_end"     validate:"required,gtefield=WindowStart"`
	TrailingDays  int        `json:"trailing_days"  validate:"gte=0,lte=366"`
}

// Schedule returns the schedule portion of the request.
func (r *CreateJobRequest) Schedule() Schedule {
	return Schedule{CronExpr: r.CronExpr, FireAt: r.FireAt, Timezone: r.Timezone}
}

// Window returns the report window portion of the request.
func (r *CreateJobRequest) Window() ReportWindow {
	return ReportWindow{Start: r.WindowStart, End: r.WindowEnd}
}

// NewJobParams is what a JobStore persists; NextFireAt is computed by the caller.
type NewJobParams struct {
	ID            string
	TargetRef     string
	OwnerUsername string
	Schedule      Schedule
	Window        ReportWindow
	TrailingDays  int
	NextFireAt    *time.Time
}

// UpdateScheduleRequest replaces a job's schedule.
type UpdateScheduleRequest struct {
	CronExpr *string    `json:"cron_expr" validate:"required_without=FireAt,excluded_with=FireAt"`
	FireAt   *time.Time `json:"fire_at"   validate:"required_without=CronExpr,excluded_with=CronExpr"`
	Timezone string     `json:"timezone"  validate:"omitempty,timezone"`
}

// Schedule returns the requested schedule.
func (r *UpdateScheduleRequest) Schedule() Schedule {
	return Schedule{CronExpr: r.CronExpr, FireAt: r.FireAt, Timezone: r.Timezone}
}

// AdvanceScheduleParams moves a due job forward after the scheduler fired it.
type AdvanceScheduleParams struct {
	ID string
	// ExpectedNextFireAt guards against two schedulers advancing the same row.
	ExpectedNextFireAt time.Time
	NextFireAt         *time.Time
	FiredAt            *time.Time
}

// JobListOptions pages job listings.
type JobListOptions struct {
	Limit  int
	Offset int
}
