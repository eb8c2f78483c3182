package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedMetric struct {
	kind  string
	name  string
	tags  map[string]string
	value any
}

type recordingSink struct {
	mu      sync.Mutex
	metrics []recordedMetric
}

func (r *recordingSink) Count(name string, value int64, tags map[string]string) {
	r.record("count", name, value, tags)
}

func (r *recordingSink) Gauge(name string, value float64, tags map[string]string) {
	r.record("gauge", name, value, tags)
}

func (r *recordingSink) Timing(name string, value time.Duration, tags map[string]string) {
	r.record("timing", name, value, tags)
}

func (r *recordingSink) record(kind, name string, value any, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = append(r.metrics, recordedMetric{kind: kind, name: name, tags: tags, value: value})
}

type storageError struct{}

func (storageError) Error() string { return "disk full" }

func TestEmitReportExecution(t *testing.T) {
	sink := &recordingSink{}
	EmitReportExecution(sink, ReportExecutionMetric{
		Kind:     "personal",
		Result:   ResultError,
		Stage:    "document",
		Duration: 2 * time.Second,
		Err:      errors.Join(storageError{}),
	})

	require.Len(t, sink.metrics, 2)
	count := sink.metrics[0]
	assert.Equal(t, "report.execution", count.name)
	assert.Equal(t, "personal", count.tags["kind"])
	assert.Equal(t, "document", count.tags["stage"])
	assert.NotEmpty(t, count.tags["error_class"])

	timing := sink.metrics[1]
	assert.Equal(t, "report.duration", timing.name)
	assert.Equal(t, 2*time.Second, timing.value)
}

func TestEmitReportExecution_SuccessHasNoErrorClass(t *testing.T) {
	sink := &recordingSink{}
	EmitReportExecution(sink, ReportExecutionMetric{Kind: "project", Result: ResultSuccess})

	require.Len(t, sink.metrics, 1, "no timing without a duration")
	_, hasClass := sink.metrics[0].tags["error_class"]
	assert.False(t, hasClass)
	_, hasStage := sink.metrics[0].tags["stage"]
	assert.False(t, hasStage)

	EmitReportExecution(nil, ReportExecutionMetric{Kind: "project"})
}

func TestEmitStageDuration(t *testing.T) {
	sink := &recordingSink{}
	EmitStageDuration(sink, "project", "template", 0, nil)
	assert.Empty(t, sink.metrics)

	EmitStageDuration(sink, "project", "template", time.Millisecond, errors.New("x"))
	require.Len(t, sink.metrics, 1)
	assert.Equal(t, ResultError, sink.metrics[0].tags["result"])
}

func TestCloneTags(t *testing.T) {
	assert.Nil(t, CloneTags(nil))
	src := map[string]string{"a": "1"}
	out := CloneTags(src)
	out["a"] = "2"
	assert.Equal(t, "1", src["a"])
}
