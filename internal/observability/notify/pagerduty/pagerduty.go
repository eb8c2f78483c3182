// Package pagerduty triggers PagerDuty Events API v2 incidents for failed reports.
package pagerduty

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/target/reportd/internal/observability/notify"
)

// APIEndpoint is the Events API v2 ingest URL.
const APIEndpoint = "https://events.pagerduty.com/v2/enqueue"

// Config for the PagerDuty sink. RoutingKey is required.
type Config struct {
	RoutingKey string
	// Endpoint overrides APIEndpoint.
	Endpoint   string
	Source     string
	Component  string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
}

// Client is a notify.Sink that triggers one incident per failing job.
type Client struct {
	routingKey string
	source     string
	component  string
	poster     *notify.Poster
	now        func() time.Time
}

var _ notify.Sink = (*Client)(nil)

type event struct {
	RoutingKey  string       `json:"routing_key"`
	EventAction string       `json:"event_action"`
	DedupKey    string       `json:"dedup_key"`
	Payload     eventPayload `json:"payload"`
}

type eventPayload struct {
	Summary       string         `json:"summary"`
	Severity      string         `json:"severity"`
	Source        string         `json:"source"`
	Component     string         `json:"component"`
	Timestamp     string         `json:"timestamp"`
	CustomDetails map[string]any `json:"custom_details"`
}

func NewClient(cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.RoutingKey)
	if key == "" {
		return nil, errors.New("pagerduty routing key is required")
	}
	endpoint := notify.Fallback(strings.TrimSpace(cfg.Endpoint), APIEndpoint)

	return &Client{
		routingKey: key,
		source:     notify.Fallback(strings.TrimSpace(cfg.Source), "reportd"),
		component:  notify.Fallback(strings.TrimSpace(cfg.Component), "report-executor"),
		poster:     notify.NewPoster("pagerduty api", endpoint, cfg.Timeout, cfg.RetryLimit, cfg.Client),
		now:        time.Now,
	}, nil
}

// SendReportFailure triggers (or re-triggers) the incident for the payload's job.
func (c *Client) SendReportFailure(ctx context.Context, payload notify.ReportFailurePayload) error {
	return c.poster.PostJSON(ctx, c.buildEvent(payload))
}

func (c *Client) buildEvent(p notify.ReportFailurePayload) event {
	at := p.OccurredAt
	if at.IsZero() {
		at = c.now()
	}

	details := map[string]any{}
	for k, v := range p.Metadata {
		details[k] = v
	}
	for k, v := range map[string]string{
		"job_id":         p.JobID,
		"kind":           p.Kind,
		"log_id":         p.LogID,
		"owner_username": p.OwnerUsername,
		"target_ref":     p.TargetRef,
		"stage":          p.Stage,
		"error":          p.Error,
		"error_class":    p.ErrorClass,
	} {
		details[k] = v
	}

	return event{
		RoutingKey:  c.routingKey,
		EventAction: "trigger",
		// Repeated failures of one job collapse into a single open incident.
		DedupKey: strings.Trim(p.Kind+":"+p.JobID, ":"),
		Payload: eventPayload{
			Summary: fmt.Sprintf("%s report %s failed at %s stage",
				notify.Fallback(p.Kind, "unknown"),
				notify.Fallback(p.JobID, "unknown"),
				notify.Fallback(p.Stage, "unknown"),
			),
			Severity:      notify.Fallback(strings.ToLower(p.Severity), notify.SeverityCritical),
			Source:        c.source,
			Component:     c.component,
			Timestamp:     at.UTC().Format(time.RFC3339),
			CustomDetails: details,
		},
	}
}
