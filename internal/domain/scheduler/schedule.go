// Package scheduler contains the pure scheduling rules for report jobs: next fire
// computation, fire keys and misfire handling.
package scheduler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/target/reportd/internal/domain/model"
)

// ParseCron parses a standard five-field cron expression (descriptors such as
// "@daily" are accepted).
func ParseCron(expr string) (cron.Schedule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, errors.New("cron expression is empty")
	}
	if strings.HasPrefix(expr, "CRON_TZ=") || strings.HasPrefix(expr, "TZ=") {
		return nil, fmt.Errorf("cron expression %q: use the timezone field instead of an inline TZ", expr)
	}
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse cron expression %q: %w", expr, err)
	}
	return sched, nil
}

// ValidateSchedule checks the trigger shape, the timezone and the cron syntax.
func ValidateSchedule(s model.Schedule) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if _, err := s.Location(); err != nil {
		return err
	}
	if s.IsRecurring() {
		if _, err := ParseCron(*s.CronExpr); err != nil {
			return err
		}
	}
	return nil
}

// InitialFireAt is the first fire time of a freshly created or rescheduled job.
// One-off schedules fire at FireAt even if it already passed; the misfire
// policy decides what happens to a late fire.
func InitialFireAt(s model.Schedule, now time.Time) (*time.Time, error) {
	if !s.IsRecurring() {
		if s.FireAt == nil || s.FireAt.IsZero() {
			return nil, errors.New("schedule requires cron_expr or fire_at")
		}
		at := s.FireAt.UTC()
		return &at, nil
	}
	return NextFireAfter(s, now)
}

// NextFireAfter returns the first fire strictly after t, or nil when the
// schedule will not fire again (one-off schedules).
func NextFireAfter(s model.Schedule, t time.Time) (*time.Time, error) {
	if !s.IsRecurring() {
		return nil, nil
	}
	loc, err := s.Location()
	if err != nil {
		return nil, err
	}
	sched, err := ParseCron(*s.CronExpr)
	if err != nil {
		return nil, err
	}
	next := sched.Next(t.In(loc))
	if next.IsZero() {
		return nil, nil
	}
	next = next.UTC()
	return &next, nil
}

// ComputeFireKey derives the idempotent key of the fire scheduled for dueAt.
func ComputeFireKey(jobID string, dueAt time.Time) string {
	return fmt.Sprintf("%s:%d", jobID, dueAt.Unix())
}
