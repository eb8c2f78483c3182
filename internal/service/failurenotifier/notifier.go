// Package failurenotifier fans report failures out to operator alert sinks.
package failurenotifier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/target/reportd/internal/observability/notify"
)

// SinkRegistration names a sink for logs.
type SinkRegistration struct {
	Name string
	Sink notify.Sink
}

// Options configures a Service.
type Options struct {
	Logger *slog.Logger
	Sinks  []SinkRegistration
	// DeliveryTimeout bounds one sink's delivery including its retries. Zero means no bound.
	DeliveryTimeout time.Duration
	// Cooldown drops repeat alerts for the same kind, job and stage inside the window.
	Cooldown time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service delivers report failures to every registered sink concurrently.
type Service struct {
	logger   *slog.Logger
	sinks    []SinkRegistration
	timeout  time.Duration
	cooldown time.Duration
	now      func() time.Time

	mu       sync.Mutex
	lastSent map[string]time.Time
}

// NewService drops nil sinks and fills defaults.
func NewService(opts Options) *Service {
	s := &Service{
		logger:   opts.Logger,
		timeout:  opts.DeliveryTimeout,
		cooldown: opts.Cooldown,
		now:      opts.Now,
		lastSent: make(map[string]time.Time),
	}
	if s.logger == nil {
		s.logger = slog.Default().With("component", "failure_notifier")
	}
	if s.now == nil {
		s.now = time.Now
	}
	for _, entry := range opts.Sinks {
		if entry.Sink == nil {
			continue
		}
		if entry.Name == "" {
			entry.Name = "sink"
		}
		s.sinks = append(s.sinks, entry)
	}
	return s
}

// Enabled reports whether any sink is registered.
func (s *Service) Enabled() bool {
	return len(s.sinks) > 0
}

// NotifyReportFailure delivers payload to all sinks and waits for them.
// Delivery errors are logged; the caller's outcome never depends on them.
func (s *Service) NotifyReportFailure(ctx context.Context, payload notify.ReportFailurePayload) {
	if !s.Enabled() {
		return
	}
	if payload.Severity == "" {
		payload.Severity = notify.SeverityCritical
	}
	if !s.admit(payload) {
		s.logger.DebugContext(ctx, "failure alert suppressed by cooldown",
			"job_id", payload.JobID,
			"kind", payload.Kind,
			"stage", payload.Stage,
		)
		return
	}

	var g errgroup.Group
	for _, entry := range s.sinks {
		g.Go(func() error {
			s.deliver(ctx, entry, payload)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Service) deliver(ctx context.Context, entry SinkRegistration, payload notify.ReportFailurePayload) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := entry.Sink.SendReportFailure(ctx, payload); err != nil {
		s.logger.ErrorContext(ctx, "failure notifier delivery error",
			"sink", entry.Name,
			"job_id", payload.JobID,
			"kind", payload.Kind,
			"error", err,
		)
	}
}

// admit records the alert and reports whether it is outside the cooldown window.
func (s *Service) admit(payload notify.ReportFailurePayload) bool {
	if s.cooldown <= 0 {
		return true
	}
	key := payload.Kind + "|" + payload.JobID + "|" + payload.Stage
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	if last, ok := s.lastSent[key]; ok && now.Sub(last) < s.cooldown {
		return false
	}
	for k, at := range s.lastSent {
		if now.Sub(at) >= s.cooldown {
			delete(s.lastSent, k)
		}
	}
	s.lastSent[key] = now
	return true
}
