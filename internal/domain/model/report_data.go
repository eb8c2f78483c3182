package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// ReportData carries the fields shared by every report payload.
// It is embedded by value in the kind-specific payloads.
type ReportData struct {
	Kind        ReportKind `json:"kind"`
	JobID       string     `json:"jobId"`
	WindowStart time.Time  `json:"windowStart"`
	WindowEnd   time.Time  `json:"windowEnd"`
}

// ProjectContribution is one project's share of a member's activity.
type ProjectContribution struct {
	ProjectID      string `json:"projectId"`
	ProjectName    string `json:"projectName"`
	TasksCompleted int    `json:"tasksCompleted"`
}

// MemberContribution is one member's share of a project's activity.
type MemberContribution struct {
	Username       string `json:"username"`
	DisplayName    string `json:"displayName"`
	TasksCompleted int    `json:"tasksCompleted"`
}

// PersonalReportData is the payload for a member report.
type PersonalReportData struct {
	ReportData
	Username       string                `json:"username"`
	DisplayName    string                `json:"displayName"`
	TasksCompleted int                   `json:"tasksCompleted"`
	TasksCreated   int                   `json:"tasksCreated"`
	TasksOpen      int                   `json:"tasksOpen"`
	Projects       []ProjectContribution `json:"projects"`
}

// ProjectReportData is the payload for a project report.
type ProjectReportData struct {
	ReportData
	ProjectID      string               `json:"projectId"`
	ProjectName    string               `json:"projectName"`
	TasksCompleted int                  `json:"tasksCompleted"`
	TasksCreated   int                  `json:"tasksCreated"`
	TasksOpen      int                  `json:"tasksOpen"`
	Members        []MemberContribution `json:"members"`
}

// ToMap flattens a payload into the generic mapping consumed by the template renderer.
// Embedded ReportData fields appear at the top level.
func ToMap(payload any) (map[string]any, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode report data: %w", err)
	}
	out := make(map[string]any)
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode report data: %w", err)
	}
	return out, nil
}
