package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/domain/model"
	"github.com/target/reportd/internal/domain/report"
	"github.com/target/reportd/internal/mocks"
	"go.uber.org/mock/gomock"
)

func TestNewRunner_RequiresExecutorPerKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	sched := mocks.NewMockReportScheduler(ctrl)
	sched.EXPECT().Kind().Return(model.ReportKindProject).AnyTimes()

	_, err := NewRunner(RunnerOptions{Schedulers: []core.ReportScheduler{sched}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project")
}

func TestRunner_DispatchesFiresAndDrainsOnShutdown(t *testing.T) {
	ctrl := gomock.NewController(t)
	sched := mocks.NewMockReportScheduler(ctrl)
	exec := mocks.NewMockReportExecutor(ctrl)
	sched.EXPECT().Kind().Return(model.ReportKindPersonal).AnyTimes()
	exec.EXPECT().Kind().Return(model.ReportKindPersonal).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ticks atomic.Int32
	sched.EXPECT().Tick(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, now time.Time) ([]core.Fire, error) {
			if ticks.Add(1) > 1 {
				return nil, nil
			}
			return []core.Fire{{JobID: "job-1", Kind: model.ReportKindPersonal, FireKey: "job-1:1", FiredAt: now}}, nil
		}).AnyTimes()

	finished := make(chan struct{})
	exec.EXPECT().Execute(gomock.Any(), gomock.Any()).
		DoAndReturn(func(execCtx context.Context, ec report.ExecutionContext) (*model.ExecutionOutcome, error) {
			id, err := report.ResolveJobID(ec)
			assert.NoError(t, err)
			assert.Equal(t, "job-1", id)
			assert.Equal(t, "job-1:1", ec.FireKey())
			cancel()
			// the runner must not cancel an execution that is already running
			time.Sleep(20 * time.Millisecond)
			assert.NoError(t, execCtx.Err())
			close(finished)
			return &model.ExecutionOutcome{Status: model.UploadStatusSuccess}, nil
		})

	runner, err := NewRunner(RunnerOptions{
		Schedulers: []core.ReportScheduler{sched},
		Executors:  []core.ReportExecutor{exec},
		Interval:   5 * time.Millisecond,
	})
	require.NoError(t, err)

	require.NoError(t, runner.Run(ctx))
	select {
	case <-finished:
	default:
		t.Fatal("Run returned before the in-flight execution finished")
	}
}

func TestRunner_TickErrorDoesNotStopLoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	sched := mocks.NewMockReportScheduler(ctrl)
	exec := mocks.NewMockReportExecutor(ctrl)
	sched.EXPECT().Kind().Return(model.ReportKindPersonal).AnyTimes()
	exec.EXPECT().Kind().Return(model.ReportKindPersonal).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var calls atomic.Int32
	sched.EXPECT().Tick(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, time.Time) ([]core.Fire, error) {
			if calls.Add(1) >= 3 {
				cancel()
			}
			return nil, errors.New("db unavailable")
		}).MinTimes(3)

	runner, err := NewRunner(RunnerOptions{
		Schedulers: []core.ReportScheduler{sched},
		Executors:  []core.ReportExecutor{exec},
		Interval:   time.Millisecond,
	})
	require.NoError(t, err)
	require.NoError(t, runner.Run(ctx))
}

func TestDispatchResult(t *testing.T) {
	assert.Equal(t, "error", dispatchResult(nil, errors.New("x")))
	assert.Equal(t, "skipped", dispatchResult(&model.ExecutionOutcome{Skipped: true}, nil))
	assert.Equal(t, "success", dispatchResult(&model.ExecutionOutcome{Status: model.UploadStatusSuccess}, nil))
	assert.Equal(t, "error", dispatchResult(&model.ExecutionOutcome{Status: model.UploadStatusFailed}, nil))
}
