package failurenotifier

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/reportd/internal/observability/notify"
)

func TestServiceNotifyReportFailure(t *testing.T) {
	ctx := context.Background()

	var (
		mu       sync.Mutex
		received []notify.ReportFailurePayload
	)
	capture := notify.SinkFunc(func(_ context.Context, payload notify.ReportFailurePayload) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, payload)
		return nil
	})
	svc := NewService(Options{
		Sinks: []SinkRegistration{
			{Name: "a", Sink: capture},
			{Name: "", Sink: capture},
			{Name: "nil", Sink: nil},
		},
	})
	require.True(t, svc.Enabled())

	svc.NotifyReportFailure(ctx, notify.ReportFailurePayload{JobID: "P-1", Kind: "personal"})

	require.Len(t, received, 2, "nil sinks are dropped at construction")
	for _, p := range received {
		assert.Equal(t, notify.SeverityCritical, p.Severity)
	}
}

func TestServiceKeepsExplicitSeverity(t *testing.T) {
	var got notify.ReportFailurePayload
	svc := NewService(Options{Sinks: []SinkRegistration{{
		Name: "capture",
		Sink: notify.SinkFunc(func(_ context.Context, payload notify.ReportFailurePayload) error {
			got = payload
			return nil
		}),
	}}})

	svc.NotifyReportFailure(context.Background(), notify.ReportFailurePayload{JobID: "P-1", Severity: notify.SeverityWarning})
	assert.Equal(t, notify.SeverityWarning, got.Severity)
}

func TestServiceDisabled(t *testing.T) {
	svc := NewService(Options{})
	assert.False(t, svc.Enabled())
	svc.NotifyReportFailure(context.Background(), notify.ReportFailurePayload{JobID: "P-1"})
}

func TestServiceLogsErrors(t *testing.T) {
	svc := NewService(Options{
		Sinks: []SinkRegistration{{
			Name: "fail",
			Sink: notify.SinkFunc(func(context.Context, notify.ReportFailurePayload) error {
				return errors.New("boom")
			}),
		}},
	})

	assert.NotPanics(t, func() {
		svc.NotifyReportFailure(context.Background(), notify.ReportFailurePayload{JobID: "P-1"})
	})
}

func TestServiceCooldownSuppressesRepeats(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	var sent atomic.Int32
	svc := NewService(Options{
		Sinks: []SinkRegistration{{Name: "count", Sink: notify.SinkFunc(func(context.Context, notify.ReportFailurePayload) error {
			sent.Add(1)
			return nil
		})}},
		Cooldown: 10 * time.Minute,
		Now:      func() time.Time { return now },
	})
	failure := notify.ReportFailurePayload{JobID: "P-1", Kind: "personal", Stage: "document"}

	svc.NotifyReportFailure(context.Background(), failure)
	svc.NotifyReportFailure(context.Background(), failure)
	assert.Equal(t, int32(1), sent.Load(), "repeat inside the window is dropped")

	other := failure
	other.Stage = "template"
	svc.NotifyReportFailure(context.Background(), other)
	assert.Equal(t, int32(2), sent.Load(), "a different stage is a different alert")

	now = now.Add(10 * time.Minute)
	svc.NotifyReportFailure(context.Background(), failure)
	assert.Equal(t, int32(3), sent.Load(), "window elapsed")
}

func TestServiceDeliveryTimeout(t *testing.T) {
	var deadlineSet atomic.Bool
	svc := NewService(Options{
		Sinks: []SinkRegistration{{Name: "slow", Sink: notify.SinkFunc(func(ctx context.Context, _ notify.ReportFailurePayload) error {
			_, ok := ctx.Deadline()
			deadlineSet.Store(ok)
			return nil
		})}},
		DeliveryTimeout: time.Second,
	})

	svc.NotifyReportFailure(context.Background(), notify.ReportFailurePayload{JobID: "P-1"})
	assert.True(t, deadlineSet.Load())
}
