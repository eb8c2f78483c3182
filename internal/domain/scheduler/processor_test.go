package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/reportd/internal/domain/model"
	"github.com/target/reportd/internal/domain/scheduler"
)

type stubAdvancer struct {
	params []model.AdvanceScheduleParams
	result bool
	err    error
}

func (s *stubAdvancer) Advance(_ context.Context, params model.AdvanceScheduleParams) (bool, error) {
	s.params = append(s.params, params)
	return s.result, s.err
}

func ptr[T any](v T) *T { return &v }

func cronJob(expr string, next time.Time) model.JobDefinition {
	return model.JobDefinition{
		ID:         "P-1",
		Kind:       model.ReportKindPersonal,
		Schedule:   model.Schedule{CronExpr: ptr(expr)},
		NextFireAt: ptr(next),
	}
}

func TestFireProcessor_NotDue(t *testing.T) {
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	store := &stubAdvancer{result: true}
	p := scheduler.NewFireProcessor(scheduler.FireProcessorOptions{})

	res, err := p.Process(context.Background(), scheduler.ProcessParams{
		Job:   cronJob("0 * * * *", now.Add(time.Minute)),
		Now:   now,
		Store: store,
	})
	require.NoError(t, err)
	assert.False(t, res.Due)
	assert.False(t, res.Fire)
	assert.Empty(t, store.params)

	job := cronJob("0 * * * *", now)
	job.NextFireAt = nil
	res, err = p.Process(context.Background(), scheduler.ProcessParams{Job: job, Now: now, Store: store})
	require.NoError(t, err)
	assert.False(t, res.Due)
}

func TestFireProcessor_OnTimeFire(t *testing.T) {
	due := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	now := due.Add(2 * time.Second)
	store := &stubAdvancer{result: true}
	p := scheduler.NewFireProcessor(scheduler.FireProcessorOptions{})

	res, err := p.Process(context.Background(), scheduler.ProcessParams{
		Job:   cronJob("0 0 * * *", due),
		Now:   now,
		Store: store,
	})
	require.NoError(t, err)
	assert.True(t, res.Fire)
	assert.False(t, res.Misfired)
	assert.Equal(t, "P-1:1705276800", res.FireKey)
	require.NotNil(t, res.NextFireAt)
	assert.Equal(t, due.AddDate(0, 0, 1), *res.NextFireAt)

	require.Len(t, store.params, 1)
	assert.Equal(t, due, store.params[0].ExpectedNextFireAt)
	require.NotNil(t, store.params[0].FiredAt)
	assert.Equal(t, now, *store.params[0].FiredAt)
}

func TestFireProcessor_MisfirePolicies(t *testing.T) {
	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		policy   model.MisfirePolicy
		wantFire bool
	}{
		{name: "fire once coalesces", policy: model.MisfirePolicyFireOnce, wantFire: true},
		{name: "skip advances without firing", policy: model.MisfirePolicySkip, wantFire: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubAdvancer{result: true}
			p := scheduler.NewFireProcessor(scheduler.FireProcessorOptions{
				MisfirePolicy:    tt.policy,
				MisfireThreshold: time.Hour,
			})
			res, err := p.Process(context.Background(), scheduler.ProcessParams{
				Job:   cronJob("0 0 * * *", due),
				Now:   now,
				Store: store,
			})
			require.NoError(t, err)
			assert.True(t, res.Misfired)
			assert.Equal(t, tt.wantFire, res.Fire)
			require.NotNil(t, res.NextFireAt)
			assert.Equal(t, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), *res.NextFireAt,
				"missed fires are not replayed")
			require.Len(t, store.params, 1)
			assert.Equal(t, tt.wantFire, store.params[0].FiredAt != nil)
		})
	}
}

func TestFireProcessor_OneOffClearsNextFire(t *testing.T) {
	due := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	store := &stubAdvancer{result: true}
	p := scheduler.NewFireProcessor(scheduler.FireProcessorOptions{})

	job := model.JobDefinition{ID: "J-9", Schedule: model.Schedule{FireAt: ptr(due)}, NextFireAt: ptr(due)}
	res, err := p.Process(context.Background(), scheduler.ProcessParams{Job: job, Now: due, Store: store})
	require.NoError(t, err)
	assert.True(t, res.Fire)
	assert.Nil(t, res.NextFireAt)
	assert.Nil(t, store.params[0].NextFireAt)
}

func TestFireProcessor_LostRace(t *testing.T) {
	due := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	store := &stubAdvancer{result: false}
	p := scheduler.NewFireProcessor(scheduler.FireProcessorOptions{})

	res, err := p.Process(context.Background(), scheduler.ProcessParams{
		Job:   cronJob("0 0 * * *", due),
		Now:   due,
		Store: store,
	})
	require.NoError(t, err)
	assert.True(t, res.Due)
	assert.False(t, res.Advanced)
	assert.False(t, res.Fire)
}

func TestFireProcessor_Errors(t *testing.T) {
	due := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	p := scheduler.NewFireProcessor(scheduler.FireProcessorOptions{})

	_, err := p.Process(context.Background(), scheduler.ProcessParams{Job: cronJob("0 0 * * *", due), Now: due})
	require.Error(t, err)

	boom := errors.New("db down")
	_, err = p.Process(context.Background(), scheduler.ProcessParams{
		Job:   cronJob("0 0 * * *", due),
		Now:   due,
		Store: &stubAdvancer{err: boom},
	})
	require.ErrorIs(t, err, boom)

	_, err = p.Process(context.Background(), scheduler.ProcessParams{
		Job:   cronJob("not a cron", due),
		Now:   due,
		Store: &stubAdvancer{result: true},
	})
	require.Error(t, err)
}
