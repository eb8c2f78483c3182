// Package slack posts report failure alerts to an incoming webhook.
package slack

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/target/reportd/internal/observability/notify"
)

// Config for the Slack sink. WebhookURL is required.
type Config struct {
	WebhookURL string
	Channel    string
	Username   string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
	// JobURLPrefix, when set, turns the job id into a link to <prefix>/<kind>/<job id>.
	JobURLPrefix string
}

// Client is a notify.Sink backed by a Slack incoming webhook.
type Client struct {
	channel   string
	username  string
	jobPrefix *url.URL
	poster    *notify.Poster
	now       func() time.Time
}

var _ notify.Sink = (*Client)(nil)

type message struct {
	Text     string `json:"text"`
	Username string `json:"username"`
	Channel  string `json:"channel,omitempty"`
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func NewClient(cfg Config) (*Client, error) {
	webhook := strings.TrimSpace(cfg.WebhookURL)
	if webhook == "" {
		return nil, errors.New("slack webhook url is required")
	}

	c := &Client{
		channel:  strings.TrimSpace(cfg.Channel),
		username: notify.Fallback(strings.TrimSpace(cfg.Username), "reportd"),
		poster:   notify.NewPoster("slack webhook", webhook, cfg.Timeout, cfg.RetryLimit, cfg.Client),
		now:      time.Now,
	}
	if u, err := url.Parse(strings.TrimSpace(cfg.JobURLPrefix)); err == nil && u.Scheme != "" && u.Host != "" {
		c.jobPrefix = u
	}
	return c, nil
}

// SendReportFailure posts one message per failure.
func (c *Client) SendReportFailure(ctx context.Context, payload notify.ReportFailurePayload) error {
	return c.poster.PostJSON(ctx, c.formatMessage(payload))
}

func (c *Client) formatMessage(p notify.ReportFailurePayload) message {
	var b strings.Builder

	b.WriteString("*Report failure alert*")
	if job := c.formatJobValue(p.Kind, p.JobID); job != "" {
		b.WriteString(" " + job)
	}
	if p.Kind != "" {
		b.WriteString(" (" + p.Kind + ")")
	}
	b.WriteByte('\n')

	field := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			fmt.Fprintf(&b, "• %s: %s\n", label, value)
		}
	}
	field("Severity", notify.Fallback(p.Severity, notify.SeverityCritical))
	field("Owner", escaper.Replace(p.OwnerUsername))
	field("Target", escaper.Replace(p.TargetRef))
	field("Stage", p.Stage)
	field("Execution log", p.LogID)
	field("Error class", p.ErrorClass)
	field("Error", escaper.Replace(p.Error))

	if len(p.Metadata) > 0 {
		b.WriteString("• Metadata:\n")
		keys := make([]string, 0, len(p.Metadata))
		for k := range p.Metadata {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "    • %s: %s\n", k, escaper.Replace(p.Metadata[k]))
		}
	}

	at := p.OccurredAt
	if at.IsZero() {
		at = c.now()
	}
	b.WriteString("• Timestamp: " + at.UTC().Format(time.RFC3339))

	return message{Text: b.String(), Username: c.username, Channel: c.channel}
}

// formatJobValue renders the job id as a link when a prefix and kind are known,
// otherwise as inline code.
func (c *Client) formatJobValue(kind, jobID string) string {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return ""
	}
	id := escaper.Replace(jobID)

	kind = strings.TrimSpace(kind)
	if c.jobPrefix != nil && kind != "" {
		return fmt.Sprintf("<%s|%s>", c.jobPrefix.JoinPath(kind, jobID).String(), id)
	}
	return "`" + id + "`"
}
