package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/target/reportd/internal/domain/model"
)

// JobRequestBuilder helps build report job requests for tests.
type JobRequestBuilder struct {
	req model.CreateJobRequest
}

// NewJobRequest returns a builder for a daily cron job with a one-week window ending at TestTime.
func NewJobRequest() *JobRequestBuilder {
	cron := "0 0 * * *"
	end := TestTime()
	return &JobRequestBuilder{req: model.CreateJobRequest{
		ID:            "J-" + uuid.NewString()[:8],
		TargetRef:     "target-1",
		OwnerUsername: "owner-1",
		CronExpr:      &cron,
		WindowStart:   end.AddDate(0, 0, -7),
		WindowEnd:     end,
	}}
}

// WithID sets the job id.
func (b *JobRequestBuilder) WithID(id string) *JobRequestBuilder {
	b.req.ID = id
	return b
}

// WithOwner sets the owner and, when no explicit target was set, the target reference.
func (b *JobRequestBuilder) WithOwner(owner string) *JobRequestBuilder {
	if b.req.TargetRef == "target-1" {
		b.req.TargetRef = owner
	}
	b.req.OwnerUsername = owner
	return b
}

// WithTarget sets the member or project reference.
func (b *JobRequestBuilder) WithTarget(target string) *JobRequestBuilder {
	b.req.TargetRef = target
	return b
}

// WithCron switches the job to a recurring schedule.
func (b *JobRequestBuilder) WithCron(expr, timezone string) *JobRequestBuilder {
	b.req.CronExpr = &expr
	b.req.FireAt = nil
	b.req.Timezone = timezone
	return b
}

// WithFireAt switches the job to a one-off schedule.
func (b *JobRequestBuilder) WithFireAt(at time.Time) *JobRequestBuilder {
	b.req.FireAt = &at
	b.req.CronExpr = nil
	b.req.Timezone = ""
	return b
}

// WithWindow sets the fixed report window.
func (b *JobRequestBuilder) WithWindow(start, end time.Time) *JobRequestBuilder {
	b.req.WindowStart = start
	b.req.WindowEnd = end
	return b
}

// WithTrailingDays makes the job use a trailing window at execution time.
func (b *JobRequestBuilder) WithTrailingDays(days int) *JobRequestBuilder {
	b.req.TrailingDays = days
	return b
}

// Build returns the request.
func (b *JobRequestBuilder) Build() *model.CreateJobRequest {
	req := b.req
	return &req
}

// BuildParams returns store parameters for the request with the given next fire time.
func (b *JobRequestBuilder) BuildParams(nextFire *time.Time) model.NewJobParams {
	return model.NewJobParams{
		ID:            b.req.ID,
		TargetRef:     b.req.TargetRef,
		OwnerUsername: b.req.OwnerUsername,
		Schedule:      b.req.Schedule(),
		Window:        b.req.Window(),
		TrailingDays:  b.req.TrailingDays,
		NextFireAt:    nextFire,
	}
}
