// Package metrics holds the standard metric shapes emitted by the report services.
package metrics

import (
	"maps"
	"time"

	obserrors "github.com/target/reportd/internal/observability/errors"
	"github.com/target/reportd/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
	ResultSkipped = "skipped"
)

// ReportExecutionMetric captures the outcome of one executor run.
type ReportExecutionMetric struct {
	Kind     string
	Result   string
	Stage    string
	Duration time.Duration
	Err      error
}

// EmitReportExecution emits report.execution and report.duration.
func EmitReportExecution(sink statsd.Sink, in ReportExecutionMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"kind":   in.Kind,
		"result": in.Result,
	}
	if in.Stage != "" {
		tags["stage"] = in.Stage
	}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("report.execution", 1, tags)

	if in.Duration > 0 {
		sink.Timing("report.duration", in.Duration, CloneTags(tags))
	}
}

// EmitStageDuration records how long one pipeline stage took.
func EmitStageDuration(sink statsd.Sink, kind, stage string, d time.Duration, err error) {
	if sink == nil || d <= 0 {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	sink.Timing("report.stage_duration", d, map[string]string{
		"kind":   kind,
		"stage":  stage,
		"result": result,
	})
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	maps.Copy(out, src)
	return out
}
