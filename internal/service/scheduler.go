// Package service provides the business logic of the report subsystem: job and
// subscriber management, the per-kind scheduler and the report executor.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/data"
	"github.com/target/reportd/internal/domain/model"
	domainscheduler "github.com/target/reportd/internal/domain/scheduler"
)

// SchedulerService implements core.ReportScheduler for one report kind.
// It advances due job schedules and returns the fires to dispatch.
// Safe under concurrent replicas through database-level concurrency controls.
type SchedulerService[K model.Kind] struct {
	kind         model.ReportKind
	store        core.ScheduleStore[K]
	cfg          core.SchedulerConfig
	timeProvider data.TimeProvider
	logger       *slog.Logger

	processor *domainscheduler.FireProcessor
}

// SchedulerServiceOptions holds the dependencies for creating a SchedulerService.
type SchedulerServiceOptions[K model.Kind] struct {
	Store        core.ScheduleStore[K]
	Config       *core.SchedulerConfig
	TimeProvider data.TimeProvider
	Logger       *slog.Logger
}

var (
	_ core.ReportScheduler = (*SchedulerService[model.Personal])(nil)
	_ core.ReportScheduler = (*SchedulerService[model.Project])(nil)
)

// NewSchedulerService creates a new SchedulerService with the given dependencies.
func NewSchedulerService[K model.Kind](opts SchedulerServiceOptions[K]) (*SchedulerService[K], error) {
	if opts.Store == nil {
		return nil, errors.New("schedule store is required")
	}
	if opts.TimeProvider == nil {
		opts.TimeProvider = &data.RealTimeProvider{}
	}
	if opts.Config == nil {
		defaultCfg := core.DefaultSchedulerConfig()
		opts.Config = &defaultCfg
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	kind := model.KindOf[K]()

	return &SchedulerService[K]{
		kind:         kind,
		store:        opts.Store,
		cfg:          *opts.Config,
		timeProvider: opts.TimeProvider,
		logger:       opts.Logger.With("component", "report_scheduler", "kind", string(kind)),
		processor: domainscheduler.NewFireProcessor(domainscheduler.FireProcessorOptions{
			MisfirePolicy:    opts.Config.MisfirePolicy,
			MisfireThreshold: opts.Config.MisfireThreshold,
		}),
	}, nil
}

// Kind reports which table pair this scheduler drives.
func (s *SchedulerService[K]) Kind() model.ReportKind { return s.kind }

// Tick advances every due job in one transaction and returns the fires to dispatch.
//
// Concurrency safety:
//   - FindDueTx uses FOR UPDATE SKIP LOCKED so replicas split the due set.
//   - TryLockJobTx takes a per-job advisory lock in the same transaction.
//   - AdvanceTx only moves a row still holding the expected next_fire_at.
//
// Fires are returned only after the transaction commits; a rolled back tick fires nothing.
func (s *SchedulerService[K]) Tick(ctx context.Context, now time.Time) ([]core.Fire, error) {
	if now.IsZero() {
		now = s.timeProvider.Now()
	}
	var fires []core.Fire

	err := s.store.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		fires = fires[:0]
		due, err := s.store.FindDueTx(ctx, tx, now, s.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("find due jobs: %w", err)
		}
		for i := range due {
			fire, ok, err := s.processJob(ctx, tx, due[i], now)
			if err != nil {
				return err
			}
			if ok {
				fires = append(fires, fire)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fires, nil
}

func (s *SchedulerService[K]) processJob(
	ctx context.Context,
	tx *sql.Tx,
	job model.JobDefinition,
	now time.Time,
) (core.Fire, bool, error) {
	locked, err := s.store.TryLockJobTx(ctx, tx, job.ID)
	if err != nil {
		return core.Fire{}, false, fmt.Errorf("lock job %s: %w", job.ID, err)
	}
	if !locked {
		// Another replica is handling this job.
		return core.Fire{}, false, nil
	}

	result, err := s.processor.Process(ctx, domainscheduler.ProcessParams{
		Job:   job,
		Now:   now,
		Store: scheduleAdvancer[K]{store: s.store, tx: tx},
	})
	if err != nil {
		return core.Fire{}, false, err
	}
	if result.Misfired {
		s.logger.WarnContext(ctx, "job misfired",
			"job_id", job.ID,
			"due_at", result.DueAt,
			"fired", result.Fire,
			"policy", string(s.cfg.MisfirePolicy),
		)
	}
	if !result.Fire {
		return core.Fire{}, false, nil
	}
	return core.Fire{
		JobID:   job.ID,
		Kind:    s.kind,
		FireKey: result.FireKey,
		DueAt:   result.DueAt,
		FiredAt: now.UTC(),
	}, true, nil
}

type scheduleAdvancer[K model.Kind] struct {
	store core.ScheduleStore[K]
	tx    *sql.Tx
}

func (a scheduleAdvancer[K]) Advance(ctx context.Context, params model.AdvanceScheduleParams) (bool, error) {
	return a.store.AdvanceTx(ctx, a.tx, params)
}
