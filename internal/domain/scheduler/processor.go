package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/target/reportd/internal/domain/model"
)

// DefaultMisfireThreshold is how late a fire may be before the misfire policy applies.
const DefaultMisfireThreshold = time.Minute

// ScheduleAdvancer persists schedule bookkeeping within the ambient transaction.
type ScheduleAdvancer interface {
	// Advance moves the job to its next fire time. It returns false when the
	// row no longer has the expected next_fire_at (another replica advanced it).
	Advance(ctx context.Context, params model.AdvanceScheduleParams) (bool, error)
}

// FireProcessorOptions configures FireProcessor defaults.
type FireProcessorOptions struct {
	MisfirePolicy    model.MisfirePolicy
	MisfireThreshold time.Duration
}

// FireProcessor decides whether a due job fires and advances its schedule.
type FireProcessor struct {
	policy    model.MisfirePolicy
	threshold time.Duration
}

// NewFireProcessor constructs a FireProcessor with sane defaults.
func NewFireProcessor(opts FireProcessorOptions) *FireProcessor {
	policy := opts.MisfirePolicy
	if !policy.Valid() {
		policy = model.MisfirePolicyFireOnce
	}
	threshold := opts.MisfireThreshold
	if threshold <= 0 {
		threshold = DefaultMisfireThreshold
	}
	return &FireProcessor{policy: policy, threshold: threshold}
}

// ProcessParams supplies the per-invocation collaborators for Process.
type ProcessParams struct {
	Job   model.JobDefinition
	Now   time.Time
	Store ScheduleAdvancer
}

// ProcessResult captures the outcome of processing a due job.
type ProcessResult struct {
	// Due is false when the job had no pending fire at Now.
	Due bool
	// Advanced is true when this processor won the schedule row.
	Advanced bool
	// Fire is true when an execution should be dispatched.
	Fire       bool
	Misfired   bool
	FireKey    string
	DueAt      time.Time
	NextFireAt *time.Time
}

// Process evaluates one job. Missed recurring fires are coalesced: the next
// fire is always computed after Now, never after DueAt.
func (p *FireProcessor) Process(ctx context.Context, params ProcessParams) (*ProcessResult, error) {
	if params.Store == nil {
		return nil, errors.New("schedule store is required")
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	job := params.Job
	result := &ProcessResult{}

	if job.NextFireAt == nil || job.NextFireAt.After(now) {
		return result, nil
	}
	result.Due = true
	result.DueAt = job.NextFireAt.UTC()
	result.FireKey = ComputeFireKey(job.ID, result.DueAt)
	result.Misfired = now.Sub(result.DueAt) > p.threshold
	fire := p.shouldFire(result.Misfired)

	next, err := NextFireAfter(job.Schedule, now)
	if err != nil {
		return nil, fmt.Errorf("compute next fire for job %s: %w", job.ID, err)
	}
	result.NextFireAt = next

	advance := model.AdvanceScheduleParams{
		ID:                 job.ID,
		ExpectedNextFireAt: result.DueAt,
		NextFireAt:         next,
	}
	if fire {
		firedAt := now.UTC()
		advance.FiredAt = &firedAt
	}
	advanced, err := params.Store.Advance(ctx, advance)
	if err != nil {
		return nil, fmt.Errorf("advance schedule for job %s: %w", job.ID, err)
	}
	result.Advanced = advanced
	result.Fire = advanced && fire
	return result, nil
}

func (p *FireProcessor) shouldFire(misfired bool) bool {
	if !misfired {
		return true
	}
	return p.policy == model.MisfirePolicyFireOnce
}
