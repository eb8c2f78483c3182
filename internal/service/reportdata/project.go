package reportdata

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/domain/model"
	"github.com/target/reportd/internal/domain/report"
)

// ProjectProvider builds project report payloads. TargetRef is the project id.
type ProjectProvider struct {
	base
}

var _ core.ReportDataProvider[model.Project] = (*ProjectProvider)(nil)

// NewProjectProvider creates a ProjectProvider.
func NewProjectProvider(opts Options) (*ProjectProvider, error) {
	b, err := newBase(opts, "project_report_data")
	if err != nil {
		return nil, err
	}
	return &ProjectProvider{base: b}, nil
}

// GetReportData returns the flattened model.ProjectReportData for job.
func (p *ProjectProvider) GetReportData(ctx context.Context, job *model.JobDefinition) (map[string]any, error) {
	window := report.EffectiveWindow(job, p.timeProvider.Now())
	projectID := job.TargetRef

	project, err := p.activity.GetProject(ctx, projectID)
	if err != nil {
		return nil, unavailable(model.ReportKindProject, projectID, err, model.ErrProjectNotFound)
	}

	var (
		counts  model.TaskCounts
		members []model.MemberContribution
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = p.activity.ProjectTaskCounts(gctx, projectID, window)
		return err
	})
	g.Go(func() error {
		var err error
		members, err = p.activity.ProjectMembers(gctx, projectID, window)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, unavailable(model.ReportKindProject, projectID, err, model.ErrProjectNotFound)
	}
	if members == nil {
		members = []model.MemberContribution{}
	}

	payload := model.ProjectReportData{
		ReportData: model.ReportData{
			Kind:        model.ReportKindProject,
			JobID:       job.ID,
			WindowStart: window.Start,
			WindowEnd:   window.End,
		},
		ProjectID:      project.ID,
		ProjectName:    project.Name,
		TasksCompleted: counts.Completed,
		TasksCreated:   counts.Created,
		TasksOpen:      counts.Open,
		Members:        members,
	}
	return model.ToMap(payload)
}
