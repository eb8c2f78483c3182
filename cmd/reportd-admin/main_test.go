package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/reportd/internal/domain/model"
)

const validImport = `{
  "jobs": [
    {
      "kind": "personal",
      "target_ref": "member-7",
      "owner_username": "alice",
      "cron_expr": "0 9 * * 1",
      "timezone": "Europe/Berlin",
      "window_start": "2024-01-01T00:00:00Z",
      "window_end": "2024-01-31T00:00:00Z"
    },
    {
      "kind": "project",
      "id": "weekly-apollo",
      "target_ref": "apollo",
      "owner_username": "bob",
      "fire_at": "2024-03-01T09:00:00Z",
      "window_start": "2024-02-01T00:00:00Z",
      "window_end": "2024-02-29T00:00:00Z",
      "trailing_days": 7
    }
  ]
}`

func TestParseImportFile(t *testing.T) {
	file, err := parseImportFile([]byte(validImport))
	require.NoError(t, err)
	require.Len(t, file.Jobs, 2)

	first := file.Jobs[0]
	assert.Equal(t, model.ReportKindPersonal, first.Kind)
	assert.Equal(t, "member-7", first.TargetRef)
	require.NotNil(t, first.CronExpr)
	assert.Equal(t, "0 9 * * 1", *first.CronExpr)
	assert.Nil(t, first.FireAt)

	second := file.Jobs[1]
	assert.Equal(t, model.ReportKindProject, second.Kind)
	assert.Equal(t, "weekly-apollo", second.ID)
	require.NotNil(t, second.FireAt)
	assert.True(t, second.FireAt.Equal(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, 7, second.TrailingDays)
}

func TestParseImportFileRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: `{"jobs": [`},
		{name: "empty job list", doc: `{"jobs": []}`},
		{
			name: "both schedules",
			doc: `{"jobs":[{"kind":"personal","target_ref":"m","owner_username":"a","cron_expr":"* * * * *",
				"fire_at":"2024-03-01T09:00:00Z","window_start":"2024-01-01T00:00:00Z","window_end":"2024-01-02T00:00:00Z"}]}`,
		},
		{
			name: "no schedule",
			doc: `{"jobs":[{"kind":"personal","target_ref":"m","owner_username":"a",
				"window_start":"2024-01-01T00:00:00Z","window_end":"2024-01-02T00:00:00Z"}]}`,
		},
		{
			name: "unknown kind",
			doc: `{"jobs":[{"kind":"team","target_ref":"m","owner_username":"a","cron_expr":"* * * * *",
				"window_start":"2024-01-01T00:00:00Z","window_end":"2024-01-02T00:00:00Z"}]}`,
		},
		{
			name: "hidden id",
			doc: `{"jobs":[{"id":".weekly","kind":"personal","target_ref":"m","owner_username":"a","cron_expr":"* * * * *",
				"window_start":"2024-01-01T00:00:00Z","window_end":"2024-01-02T00:00:00Z"}]}`,
		},
		{
			name: "unknown field",
			doc: `{"jobs":[{"kind":"personal","target_ref":"m","owner_username":"a","cron_expr":"* * * * *",
				"window_start":"2024-01-01T00:00:00Z","window_end":"2024-01-02T00:00:00Z","colour":"red"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseImportFile([]byte(tt.doc))
			require.Error(t, err)
		})
	}
}

func TestParseImportFileListsEveryProblem(t *testing.T) {
	_, err := parseImportFile([]byte(`{"jobs":[{"kind":"team"}]}`))
	require.Error(t, err)

	var verr *importValidationError
	require.ErrorAs(t, err, &verr)
	assert.Greater(t, len(verr.Problems), 1)
	assert.Contains(t, err.Error(), "import file failed validation")
}

type fakeJobAdmin struct {
	kind    model.ReportKind
	created []*model.CreateJobRequest
	failOn  string
}

func (f *fakeJobAdmin) Create(_ context.Context, req *model.CreateJobRequest) (*model.JobDefinition, error) {
	if req.TargetRef == f.failOn {
		return nil, model.ErrJobAlreadyExists
	}
	f.created = append(f.created, req)
	return &model.JobDefinition{ID: "job-" + req.TargetRef, Kind: f.kind, TargetRef: req.TargetRef}, nil
}

func (f *fakeJobAdmin) Get(context.Context, string) (*model.JobDefinition, error) {
	return nil, model.ErrJobNotFound
}

func (f *fakeJobAdmin) ListByOwner(context.Context, string, model.JobListOptions) ([]*model.JobDefinition, error) {
	return nil, nil
}

func (f *fakeJobAdmin) Reschedule(context.Context, string, *model.UpdateScheduleRequest) (*model.JobDefinition, error) {
	return nil, model.ErrJobNotFound
}

func (f *fakeJobAdmin) Delete(context.Context, string) (bool, error) { return false, nil }

func TestImportJobsRoutesByKindAndContinuesPastFailures(t *testing.T) {
	file, err := parseImportFile([]byte(validImport))
	require.NoError(t, err)
	file.Jobs = append(file.Jobs, file.Jobs[0])
	file.Jobs[2].TargetRef = "dup"

	personal := &fakeJobAdmin{kind: model.ReportKindPersonal, failOn: "dup"}
	project := &fakeJobAdmin{kind: model.ReportKindProject}
	lookups := 0

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	err = importJobs(context.Background(), cmd, file, func(kind model.ReportKind) (jobAdmin, error) {
		lookups++
		if kind == model.ReportKindPersonal {
			return personal, nil
		}
		return project, nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrJobAlreadyExists)
	assert.Equal(t, 2, lookups, "one service per kind")
	assert.Len(t, personal.created, 1)
	assert.Len(t, project.created, 1)
	assert.Contains(t, out.String(), "Created project job job-apollo")
	assert.Contains(t, out.String(), "Imported 2 of 3 job(s)")
}

func TestImportJobsStopsWhenServiceUnavailable(t *testing.T) {
	file, err := parseImportFile([]byte(validImport))
	require.NoError(t, err)
	boom := errors.New("boom")

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	err = importJobs(context.Background(), cmd, file, func(model.ReportKind) (jobAdmin, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
}

func TestParseKind(t *testing.T) {
	kind, err := parseKind(" Project ")
	require.NoError(t, err)
	assert.Equal(t, model.ReportKindProject, kind)

	_, err = parseKind("team")
	require.Error(t, err)
}

func TestDescribeSchedule(t *testing.T) {
	expr := "0 9 * * 1"
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, `cron "0 9 * * 1"`, describeSchedule(model.Schedule{CronExpr: &expr}))
	assert.Equal(t, `cron "0 9 * * 1" UTC`, describeSchedule(model.Schedule{CronExpr: &expr, Timezone: "UTC"}))
	assert.Equal(t, "once 2024-03-01T09:00:00Z", describeSchedule(model.Schedule{FireAt: &at}))
	assert.Equal(t, "-", describeSchedule(model.Schedule{}))
}

func TestBuildLogListOptions(t *testing.T) {
	t.Cleanup(func() { logsStatus = "" })

	logsStatus = "FAILED"
	opts, err := buildLogListOptions()
	require.NoError(t, err)
	require.NotNil(t, opts.Status)
	assert.Equal(t, model.UploadStatusFailed, *opts.Status)

	logsStatus = "DONE"
	_, err = buildLogListOptions()
	require.Error(t, err)
}

func TestPrintLogs(t *testing.T) {
	ended := time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)
	ref := "job-1_2024-03-01T09:00:00.pdf"
	reason := "template error"
	logs := []*model.ExecutionLog{
		{
			ID: uuid.New(), JobID: "job-1", UploadStatus: model.UploadStatusSuccess,
			StartedAt: ended.Add(-5 * time.Minute), EndedAt: &ended, FileRef: &ref,
		},
		{
			ID: uuid.New(), JobID: "job-1", UploadStatus: model.UploadStatusFailed,
			StartedAt: ended, EndedAt: &ended, FailureReason: &reason,
		},
	}

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, printLogs(cmd, logs))

	text := out.String()
	assert.Contains(t, text, "LOG ID")
	assert.Contains(t, text, ref)
	assert.Contains(t, text, "template error")
	assert.Contains(t, text, "SUCCESS")
}
