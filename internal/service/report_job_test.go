package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/data"
	"github.com/target/reportd/internal/domain/model"
	"github.com/target/reportd/internal/mocks"
	"go.uber.org/mock/gomock"
)

func newJobService(t *testing.T, now time.Time) (*ReportJobService[model.Project], *mocks.MockJobStore[model.Project]) {
	t.Helper()
	store := mocks.NewMockJobStore[model.Project](gomock.NewController(t))
	svc, err := NewReportJobService(ReportJobServiceOptions[model.Project]{
		Jobs:         store,
		TimeProvider: data.NewFixedTimeProvider(now),
	})
	require.NoError(t, err)
	return svc, store
}

func TestReportJobService_CreateComputesFirstFire(t *testing.T) {
	now := time.Date(2024, 3, 4, 10, 30, 0, 0, time.UTC) // Monday
	svc, store := newJobService(t, now)
	cron := "0 9 * * 1"

	store.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p model.NewJobParams) (*model.JobDefinition, error) {
			_, err := uuid.Parse(p.ID)
			require.NoError(t, err, "generated id should be a uuid")
			require.NotNil(t, p.NextFireAt)
			assert.Equal(t, time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC), *p.NextFireAt)
			assert.Equal(t, "p1", p.TargetRef)
			return &model.JobDefinition{ID: p.ID, OwnerUsername: p.OwnerUsername, NextFireAt: p.NextFireAt}, nil
		})

	job, err := svc.Create(context.Background(), &model.CreateJobRequest{
		TargetRef:     " p1 ",
		OwnerUsername: "alice",
		CronExpr:      &cron,
		WindowStart:   now.AddDate(0, -1, 0),
		WindowEnd:     now,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", job.OwnerUsername)
}

func TestReportJobService_CreateKeepsExplicitID(t *testing.T) {
	now := time.Date(2024, 3, 4, 10, 30, 0, 0, time.UTC)
	svc, store := newJobService(t, now)
	fireAt := now.Add(-time.Hour)

	store.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p model.NewJobParams) (*model.JobDefinition, error) {
			assert.Equal(t, "weekly-apollo", p.ID)
			// past one-off fire times are kept; the misfire policy handles them
			assert.Equal(t, fireAt, *p.NextFireAt)
			return &model.JobDefinition{ID: p.ID}, nil
		})

	_, err := svc.Create(context.Background(), &model.CreateJobRequest{
		ID:            "weekly-apollo",
		TargetRef:     "p1",
		OwnerUsername: "alice",
		FireAt:        &fireAt,
		WindowStart:   now.AddDate(0, -1, 0),
		WindowEnd:     now,
	})
	require.NoError(t, err)
}

func TestReportJobService_CreateRejectsIDThatCannotNameArtifacts(t *testing.T) {
	now := time.Date(2024, 3, 4, 10, 30, 0, 0, time.UTC)
	svc, _ := newJobService(t, now)
	fireAt := now.Add(time.Hour)

	// Surrounding spaces pass the tag rules but are trimmed before storing.
	_, err := svc.Create(context.Background(), &model.CreateJobRequest{
		ID:            " .weekly",
		TargetRef:     "p1",
		OwnerUsername: "alice",
		FireAt:        &fireAt,
		WindowStart:   now.AddDate(0, -1, 0),
		WindowEnd:     now,
	})
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "id", verr.Field)
	assert.Contains(t, err.Error(), "is hidden")
}

func TestReportJobService_CreateRejectsInvalidCron(t *testing.T) {
	svc, _ := newJobService(t, time.Now())
	cron := "every tuesday"

	_, err := svc.Create(context.Background(), &model.CreateJobRequest{
		TargetRef:     "p1",
		OwnerUsername: "alice",
		CronExpr:      &cron,
		WindowStart:   time.Now().Add(-time.Hour),
		WindowEnd:     time.Now(),
	})
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestReportJobService_CreatePropagatesConflict(t *testing.T) {
	now := time.Now().UTC()
	svc, store := newJobService(t, now)
	fireAt := now.Add(time.Hour)
	store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, model.ErrJobAlreadyExists)

	_, err := svc.Create(context.Background(), &model.CreateJobRequest{
		ID: "dup", TargetRef: "p1", OwnerUsername: "alice", FireAt: &fireAt,
		WindowStart: now.Add(-time.Hour), WindowEnd: now,
	})
	require.ErrorIs(t, err, model.ErrJobAlreadyExists)
}

func TestReportJobService_Reschedule(t *testing.T) {
	now := time.Date(2024, 3, 4, 10, 30, 0, 0, time.UTC)
	svc, store := newJobService(t, now)
	cron := "30 10 * * *"

	store.EXPECT().UpdateSchedule(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p core.UpdateJobScheduleParams) (*model.JobDefinition, error) {
			assert.Equal(t, "job-1", p.ID)
			// strictly after now, so the 10:30 slot of today is skipped
			assert.Equal(t, time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC), *p.NextFireAt)
			return &model.JobDefinition{ID: p.ID, Schedule: p.Schedule}, nil
		})

	_, err := svc.Reschedule(context.Background(), "job-1", &model.UpdateScheduleRequest{CronExpr: &cron})
	require.NoError(t, err)
}

func TestReportJobService_ListDefaultsLimit(t *testing.T) {
	svc, store := newJobService(t, time.Now())
	store.EXPECT().ListByOwner(gomock.Any(), "alice", model.JobListOptions{Limit: 50}).Return(nil, nil)

	_, err := svc.ListByOwner(context.Background(), "alice", model.JobListOptions{})
	require.NoError(t, err)
}
