package model

import "time"

// Subscriber is an entity entitled to receive generated reports.
type Subscriber struct {
	Username            string    `json:"username"`
	Email               string    `json:"email"`
	PersonalReportCount int64     `json:"personal_report_count"`
	ProjectReportCount  int64     `json:"project_report_count"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// View converts the subscriber into its presentation form.
func (s *Subscriber) View() *SubscriberView {
	if s == nil {
		return nil
	}
	return &SubscriberView{
		Username:        s.Username,
		Email:           s.Email,
		PersonalReports: s.PersonalReportCount,
		ProjectReports:  s.ProjectReportCount,
	}
}

// CountFor returns the delivered-report counter for kind.
func (s *Subscriber) CountFor(kind ReportKind) int64 {
	switch kind {
	case ReportKindPersonal:
		return s.PersonalReportCount
	case ReportKindProject:
		return s.ProjectReportCount
	default:
		return 0
	}
}

// SubscriberView is what external callers see.
type SubscriberView struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	PersonalReports int64  `json:"personalReports"`
	ProjectReports  int64  `json:"projectReports"`
}

// CreateSubscriberRequest registers a new subscriber.
type CreateSubscriberRequest struct {
	Username string `json:"username" validate:"required,min=1,max=255,printascii"`
	Email    string `json:"email"    validate:"required,email,max=320"`
}

// SubscriberListOptions pages subscriber listings.
type SubscriberListOptions struct {
	Limit  int
	Offset int
}

// NotificationIntent is handed to the external notifier after a SUCCESS transition.
type NotificationIntent struct {
	Username string     `json:"username"`
	Email    string     `json:"email"`
	FileRef  string     `json:"fileRef"`
	Kind     ReportKind `json:"kind"`
	JobID    string     `json:"jobId"`
	LogID    string     `json:"logId"`
}
