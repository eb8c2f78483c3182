package markup

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/reportd/internal/domain/model"
)

func personalData(t *testing.T) map[string]any {
	t.Helper()
	data, err := model.ToMap(model.PersonalReportData{
		ReportData: model.ReportData{
			Kind:        model.ReportKindPersonal,
			JobID:       "P-1",
			WindowStart: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
			WindowEnd:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		Username:       "alice",
		DisplayName:    "Alice Liddell",
		TasksCompleted: 3,
		TasksCreated:   5,
		TasksOpen:      2,
		Projects: []model.ProjectContribution{
			{ProjectID: "apollo", ProjectName: "Apollo <beta>", TasksCompleted: 3},
		},
	})
	require.NoError(t, err)
	return data
}

func projectData(t *testing.T) map[string]any {
	t.Helper()
	data, err := model.ToMap(model.ProjectReportData{
		ReportData: model.ReportData{
			Kind:        model.ReportKindProject,
			JobID:       "R-1",
			WindowStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			WindowEnd:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		},
		ProjectID:   "apollo",
		ProjectName: "Apollo",
		Members:     []model.MemberContribution{},
	})
	require.NoError(t, err)
	return data
}

func TestRenderer_GenerateHTML_Personal(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	html, err := r.GenerateHTML(personalData(t), model.ReportKindPersonal)
	require.NoError(t, err)

	assert.Contains(t, html, `data-report-kind="personal"`)
	assert.Contains(t, html, "Alice Liddell")
	assert.Contains(t, html, "Jan 8, 2024 00:00 UTC")
	assert.Contains(t, html, "Apollo &lt;beta&gt;", "values are HTML escaped")
	assert.NotContains(t, html, "<beta>")
}

func TestRenderer_GenerateHTML_ProjectWithoutMembers(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	html, err := r.GenerateHTML(projectData(t), model.ReportKindProject)
	require.NoError(t, err)
	assert.Contains(t, html, `data-report-kind="project"`)
	assert.Contains(t, html, "This project has no members.")
}

func TestRenderer_GenerateHTML_Errors(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	tests := []struct {
		name    string
		data    func(t *testing.T) map[string]any
		kind    model.ReportKind
		wantKey string
	}{
		{
			name: "missing required key",
			data: func(t *testing.T) map[string]any {
				d := personalData(t)
				delete(d, "username")
				return d
			},
			kind:    model.ReportKindPersonal,
			wantKey: "username",
		},
		{
			name: "null list",
			data: func(t *testing.T) map[string]any {
				d := projectData(t)
				d["members"] = nil
				return d
			},
			kind:    model.ReportKindProject,
			wantKey: "members",
		},
		{
			name: "data for another kind",
			data: personalData,
			kind: model.ReportKindProject,
			// projectId is the first project-only key checked.
			wantKey: "projectId",
		},
		{
			name: "unknown kind",
			data: personalData,
			kind: model.ReportKind("team"),
		},
		{
			name: "nil data",
			data: func(*testing.T) map[string]any { return nil },
			kind: model.ReportKindPersonal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.GenerateHTML(tt.data(t), tt.kind)
			require.Error(t, err)

			var renderErr *model.TemplateRenderError
			require.True(t, errors.As(err, &renderErr))
			assert.Equal(t, tt.wantKey, renderErr.Key)
		})
	}
}

func TestRenderer_GenerateHTML_BadDateIsTemplateError(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	data := personalData(t)
	data["windowStart"] = "last tuesday"

	_, err = r.GenerateHTML(data, model.ReportKindPersonal)
	var renderErr *model.TemplateRenderError
	require.ErrorAs(t, err, &renderErr)
	assert.NotNil(t, renderErr.Cause)
}

func TestCheckRoot(t *testing.T) {
	require.NoError(t, checkRoot(`<div data-report-kind="project"></div>`, model.ReportKindProject))
	require.Error(t, checkRoot(`<div></div>`, model.ReportKindProject))
	require.Error(t, checkRoot(`<div data-report-kind="personal"></div>`, model.ReportKindProject))
}
