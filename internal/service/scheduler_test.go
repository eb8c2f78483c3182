package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/data"
	"github.com/target/reportd/internal/domain/model"
	"github.com/target/reportd/internal/mocks"
	"go.uber.org/mock/gomock"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func newTestScheduler(
	t *testing.T,
	now time.Time,
	policy model.MisfirePolicy,
) (*SchedulerService[model.Personal], *mocks.MockScheduleStore[model.Personal]) {
	t.Helper()
	store := mocks.NewMockScheduleStore[model.Personal](gomock.NewController(t))
	store.EXPECT().WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
			return fn(ctx, nil)
		}).AnyTimes()

	cfg := core.DefaultSchedulerConfig()
	cfg.MisfirePolicy = policy
	svc, err := NewSchedulerService(SchedulerServiceOptions[model.Personal]{
		Store:        store,
		Config:       &cfg,
		TimeProvider: data.NewFixedTimeProvider(now),
	})
	require.NoError(t, err)
	return svc, store
}

func TestSchedulerService_FiresDueJob(t *testing.T) {
	now := time.Date(2024, 3, 4, 9, 0, 10, 0, time.UTC)
	due := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	svc, store := newTestScheduler(t, now, model.MisfirePolicyFireOnce)

	job := model.JobDefinition{
		ID:         "job-1",
		Schedule:   model.Schedule{CronExpr: strPtr("0 9 * * *")},
		NextFireAt: timePtr(due),
	}
	store.EXPECT().FindDueTx(gomock.Any(), gomock.Any(), now, 25).Return([]model.JobDefinition{job}, nil)
	store.EXPECT().TryLockJobTx(gomock.Any(), gomock.Any(), "job-1").Return(true, nil)
	store.EXPECT().AdvanceTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sql.Tx, p model.AdvanceScheduleParams) (bool, error) {
			assert.Equal(t, due, p.ExpectedNextFireAt)
			assert.Equal(t, time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC), *p.NextFireAt)
			require.NotNil(t, p.FiredAt)
			return true, nil
		})

	fires, err := svc.Tick(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, fires, 1)
	assert.Equal(t, "job-1", fires[0].JobID)
	assert.Equal(t, model.ReportKindPersonal, fires[0].Kind)
	assert.Equal(t, due, fires[0].DueAt)
	assert.NotEmpty(t, fires[0].FireKey)
}

func TestSchedulerService_SkipsLockedJob(t *testing.T) {
	now := time.Now().UTC()
	svc, store := newTestScheduler(t, now, model.MisfirePolicyFireOnce)

	store.EXPECT().FindDueTx(gomock.Any(), gomock.Any(), now, 25).
		Return([]model.JobDefinition{{ID: "job-1", NextFireAt: timePtr(now)}}, nil)
	store.EXPECT().TryLockJobTx(gomock.Any(), gomock.Any(), "job-1").Return(false, nil)

	fires, err := svc.Tick(context.Background(), now)
	require.NoError(t, err)
	assert.Empty(t, fires)
}

func TestSchedulerService_LostAdvanceDoesNotFire(t *testing.T) {
	now := time.Now().UTC()
	svc, store := newTestScheduler(t, now, model.MisfirePolicyFireOnce)

	store.EXPECT().FindDueTx(gomock.Any(), gomock.Any(), now, 25).
		Return([]model.JobDefinition{{
			ID:         "job-1",
			Schedule:   model.Schedule{FireAt: timePtr(now)},
			NextFireAt: timePtr(now),
		}}, nil)
	store.EXPECT().TryLockJobTx(gomock.Any(), gomock.Any(), "job-1").Return(true, nil)
	store.EXPECT().AdvanceTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)

	fires, err := svc.Tick(context.Background(), now)
	require.NoError(t, err)
	assert.Empty(t, fires)
}

func TestSchedulerService_MisfireSkipPolicyAdvancesWithoutFiring(t *testing.T) {
	now := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	svc, store := newTestScheduler(t, now, model.MisfirePolicySkip)

	store.EXPECT().FindDueTx(gomock.Any(), gomock.Any(), now, 25).
		Return([]model.JobDefinition{{
			ID:         "job-1",
			Schedule:   model.Schedule{CronExpr: strPtr("0 9 * * *")},
			NextFireAt: timePtr(time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)),
		}}, nil)
	store.EXPECT().TryLockJobTx(gomock.Any(), gomock.Any(), "job-1").Return(true, nil)
	store.EXPECT().AdvanceTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sql.Tx, p model.AdvanceScheduleParams) (bool, error) {
			assert.Nil(t, p.FiredAt)
			assert.Equal(t, time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC), *p.NextFireAt)
			return true, nil
		})

	fires, err := svc.Tick(context.Background(), now)
	require.NoError(t, err)
	assert.Empty(t, fires)
}

func TestSchedulerService_ErrorRollsBackWholeTick(t *testing.T) {
	now := time.Now().UTC()
	svc, store := newTestScheduler(t, now, model.MisfirePolicyFireOnce)

	store.EXPECT().FindDueTx(gomock.Any(), gomock.Any(), now, 25).
		Return([]model.JobDefinition{
			{ID: "job-1", Schedule: model.Schedule{FireAt: timePtr(now)}, NextFireAt: timePtr(now)},
			{ID: "job-2", Schedule: model.Schedule{FireAt: timePtr(now)}, NextFireAt: timePtr(now)},
		}, nil)
	store.EXPECT().TryLockJobTx(gomock.Any(), gomock.Any(), "job-1").Return(true, nil)
	store.EXPECT().AdvanceTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
	store.EXPECT().TryLockJobTx(gomock.Any(), gomock.Any(), "job-2").Return(false, errors.New("conn reset"))

	fires, err := svc.Tick(context.Background(), now)
	require.Error(t, err)
	assert.Nil(t, fires)
}

func TestSchedulerService_Kind(t *testing.T) {
	svc, _ := newTestScheduler(t, time.Now(), model.MisfirePolicyFireOnce)
	assert.Equal(t, model.ReportKindPersonal, svc.Kind())
}
