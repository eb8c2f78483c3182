package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/target/reportd/internal/errors"
)

func TestCreateJobRequest_Validate(t *testing.T) {
	cron := "0 9 * * 1"
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fireAt := start.Add(24 * time.Hour)

	valid := CreateJobRequest{
		TargetRef:     "alice",
		OwnerUsername: "alice",
		CronExpr:      &cron,
		WindowStart:   start,
		WindowEnd:     start.AddDate(0, 1, 0),
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(r *CreateJobRequest)
	}{
		{"missing owner", func(r *CreateJobRequest) { r.OwnerUsername = "" }},
		{"both triggers", func(r *CreateJobRequest) { r.FireAt = &fireAt }},
		{"no trigger", func(r *CreateJobRequest) { r.CronExpr = nil }},
		{"inverted window", func(r *CreateJobRequest) { r.WindowEnd = start.Add(-time.Hour) }},
		{"bad timezone", func(r *CreateJobRequest) { r.Timezone = "Mars/Olympus" }},
		{"slash in id", func(r *CreateJobRequest) { r.ID = "../etc" }},
		{"backslash in id", func(r *CreateJobRequest) { r.ID = `weekly\sales` }},
		{"hidden id", func(r *CreateJobRequest) { r.ID = ".weekly" }},
		{"negative trailing days", func(r *CreateJobRequest) { r.TrailingDays = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Fields)
		})
	}
}

func TestValidationError_CarriesAppValidationCode(t *testing.T) {
	cron := "0 9 * * 1"
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	req := CreateJobRequest{
		ID:            ".weekly",
		TargetRef:     "alice",
		OwnerUsername: "alice",
		CronExpr:      &cron,
		WindowStart:   start,
		WindowEnd:     start.AddDate(0, 1, 0),
	}

	err := req.Validate()
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "id", apperrors.GetField(err))
	assert.Contains(t, err.Error(), "id failed jobid")
}

func TestCreateSubscriberRequest_Validate(t *testing.T) {
	require.NoError(t, (&CreateSubscriberRequest{Username: "alice", Email: "alice@example.com"}).Validate())

	err := (&CreateSubscriberRequest{Username: "alice", Email: "not-an-email"}).Validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "email failed email")
}

func TestUpdateScheduleRequest_Validate(t *testing.T) {
	fireAt := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, (&UpdateScheduleRequest{FireAt: &fireAt}).Validate())
	require.Error(t, (&UpdateScheduleRequest{}).Validate())
}
