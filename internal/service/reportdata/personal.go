package reportdata

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/domain/model"
	"github.com/target/reportd/internal/domain/report"
)

// PersonalProvider builds member report payloads. TargetRef is the member's username.
type PersonalProvider struct {
	base
}

var _ core.ReportDataProvider[model.Personal] = (*PersonalProvider)(nil)

// NewPersonalProvider creates a PersonalProvider.
func NewPersonalProvider(opts Options) (*PersonalProvider, error) {
	b, err := newBase(opts, "personal_report_data")
	if err != nil {
		return nil, err
	}
	return &PersonalProvider{base: b}, nil
}

// GetReportData returns the flattened model.PersonalReportData for job.
func (p *PersonalProvider) GetReportData(ctx context.Context, job *model.JobDefinition) (map[string]any, error) {
	window := report.EffectiveWindow(job, p.timeProvider.Now())
	username := job.TargetRef

	member, err := p.activity.GetMember(ctx, username)
	if err != nil {
		return nil, unavailable(model.ReportKindPersonal, username, err, model.ErrMemberNotFound)
	}

	var (
		counts   model.TaskCounts
		projects []model.ProjectContribution
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = p.activity.MemberTaskCounts(gctx, username, window)
		return err
	})
	g.Go(func() error {
		var err error
		projects, err = p.activity.MemberProjects(gctx, username, window)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, unavailable(model.ReportKindPersonal, username, err, model.ErrMemberNotFound)
	}
	if projects == nil {
		projects = []model.ProjectContribution{}
	}

	payload := model.PersonalReportData{
		ReportData: model.ReportData{
			Kind:        model.ReportKindPersonal,
			JobID:       job.ID,
			WindowStart: window.Start,
			WindowEnd:   window.End,
		},
		Username:       member.Username,
		DisplayName:    member.DisplayName,
		TasksCompleted: counts.Completed,
		TasksCreated:   counts.Created,
		TasksOpen:      counts.Open,
		Projects:       projects,
	}
	p.logger.DebugContext(ctx, "personal report data assembled",
		"job_id", job.ID, "username", username, "projects", len(projects))
	return model.ToMap(payload)
}
