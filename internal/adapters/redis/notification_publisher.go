// Package redis provides Redis-based adapters for the report service.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/domain/model"
)

const (
	// DefaultNotificationStream is the stream the delivery service consumes.
	DefaultNotificationStream = "reports:notifications"
	// DefaultNotificationStreamMaxLen caps the stream; trimming is approximate.
	DefaultNotificationStreamMaxLen int64 = 100_000
)

// NotificationPublisherOptions configures NewNotificationPublisher.
type NotificationPublisherOptions struct {
	Client redis.UniversalClient
	Stream string
	MaxLen int64
}

// NotificationPublisher appends notification intents to a Redis stream.
type NotificationPublisher struct {
	client redis.UniversalClient
	stream string
	maxLen int64
}

var _ core.NotificationPublisher = (*NotificationPublisher)(nil)

// NewNotificationPublisher creates a stream publisher, applying defaults for empty options.
func NewNotificationPublisher(opts NotificationPublisherOptions) (*NotificationPublisher, error) {
	if opts.Client == nil {
		return nil, errors.New("redis client is required")
	}
	stream := strings.TrimSpace(opts.Stream)
	if stream == "" {
		stream = DefaultNotificationStream
	}
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = DefaultNotificationStreamMaxLen
	}
	return &NotificationPublisher{client: opts.Client, stream: stream, maxLen: maxLen}, nil
}

// Publish adds one entry per intent. Fields are flat so consumers need no decoder;
// "payload" carries the full JSON for consumers that prefer it.
func (p *NotificationPublisher) Publish(ctx context.Context, intent model.NotificationIntent) error {
	if intent.Username == "" || intent.FileRef == "" {
		return errors.New("notification intent requires username and file reference")
	}
	payload, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("marshal notification intent: %w", err)
	}
	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"username": intent.Username,
			"email":    intent.Email,
			"fileRef":  intent.FileRef,
			"kind":     string(intent.Kind),
			"jobId":    intent.JobID,
			"logId":    intent.LogID,
			"payload":  string(payload),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

// Stream returns the stream name entries are written to.
func (p *NotificationPublisher) Stream() string { return p.stream }
