package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/reportd/internal/domain/model"
)

func strPtr(s string) *string { return &s }

func TestValidateSchedule(t *testing.T) {
	at := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		sched   model.Schedule
		wantErr bool
	}{
		{name: "cron", sched: model.Schedule{CronExpr: strPtr("0 6 * * 1")}},
		{name: "descriptor", sched: model.Schedule{CronExpr: strPtr("@daily")}},
		{name: "one-off", sched: model.Schedule{FireAt: &at}},
		{name: "cron with tz", sched: model.Schedule{CronExpr: strPtr("0 6 * * *"), Timezone: "America/Chicago"}},
		{name: "bad cron", sched: model.Schedule{CronExpr: strPtr("61 * * * *")}, wantErr: true},
		{name: "inline tz rejected", sched: model.Schedule{CronExpr: strPtr("CRON_TZ=UTC 0 6 * * *")}, wantErr: true},
		{name: "bad tz", sched: model.Schedule{CronExpr: strPtr("0 6 * * *"), Timezone: "Nowhere/City"}, wantErr: true},
		{name: "both", sched: model.Schedule{CronExpr: strPtr("0 6 * * *"), FireAt: &at}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSchedule(tt.sched)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNextFireAfter_Timezone(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	s := model.Schedule{CronExpr: strPtr("0 6 * * *"), Timezone: "America/Chicago"}
	after := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	next, err := NextFireAfter(s, after)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, time.UTC, next.Location())
	assert.Equal(t, time.Date(2024, 1, 15, 6, 0, 0, 0, chicago).UTC(), *next)
}

func TestNextFireAfter_StrictlyAfter(t *testing.T) {
	s := model.Schedule{CronExpr: strPtr("0 0 * * *")}
	midnight := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	next, err := NextFireAfter(s, midnight)
	require.NoError(t, err)
	assert.Equal(t, midnight.AddDate(0, 0, 1), *next)
}

func TestInitialFireAt(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	at, err := InitialFireAt(model.Schedule{FireAt: &past}, now)
	require.NoError(t, err)
	assert.Equal(t, past, *at, "past one-off still fires once")

	next, err := InitialFireAt(model.Schedule{CronExpr: strPtr("30 10 * * *")}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), *next)

	oneOff, err := NextFireAfter(model.Schedule{FireAt: &past}, now)
	require.NoError(t, err)
	assert.Nil(t, oneOff)
}

func TestComputeFireKey(t *testing.T) {
	due := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "P-1:1705276800", ComputeFireKey("P-1", due))
	assert.Equal(t, ComputeFireKey("P-1", due), ComputeFireKey("P-1", due.In(time.FixedZone("X", 3600))))
}
