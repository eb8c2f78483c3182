package report

import (
	"time"

	"github.com/target/reportd/internal/domain/model"
)

// EffectiveWindow returns the window a report should cover when executed at now.
// Jobs with TrailingDays > 0 cover the trailing period ending at now; others use their stored window.
func EffectiveWindow(job *model.JobDefinition, now time.Time) model.ReportWindow {
	if job.TrailingDays > 0 {
		end := now.UTC()
		return model.ReportWindow{
			Start: end.AddDate(0, 0, -job.TrailingDays),
			End:   end,
		}
	}
	return model.ReportWindow{Start: job.Window.Start.UTC(), End: job.Window.End.UTC()}
}
