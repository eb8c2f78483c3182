package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/domain/model"
)

// SubscriberServiceOptions groups dependencies for SubscriberService.
type SubscriberServiceOptions struct {
	Subscribers core.SubscriberStore    // Required
	Views       *core.SubscriberViewCache // Optional: store reads when nil
	Logger      *slog.Logger            // Optional
}

// SubscriberService manages subscribers and their cached views.
type SubscriberService struct {
	subscribers core.SubscriberStore
	views       *core.SubscriberViewCache
	logger      *slog.Logger
}

// NewSubscriberService constructs a SubscriberService.
func NewSubscriberService(opts SubscriberServiceOptions) (*SubscriberService, error) {
	if opts.Subscribers == nil {
		return nil, errors.New("subscriber store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	views := opts.Views
	if views == nil {
		views = core.NewSubscriberViewCache(core.SubscriberViewCacheOptions{Subscribers: opts.Subscribers, Logger: logger})
	}
	return &SubscriberService{
		subscribers: opts.Subscribers,
		views:       views,
		logger:      logger.With("component", "subscribers"),
	}, nil
}

// Create registers a subscriber.
func (s *SubscriberService) Create(ctx context.Context, req *model.CreateSubscriberRequest) (*model.Subscriber, error) {
	if req == nil {
		return nil, errors.New("create subscriber request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.subscribers.Create(ctx, req)
}

// View returns the presentation form of username, served from cache when possible.
func (s *SubscriberService) View(ctx context.Context, username string) (*model.SubscriberView, error) {
	return s.views.View(ctx, username)
}

// List returns a page of subscribers.
func (s *SubscriberService) List(ctx context.Context, opts model.SubscriberListOptions) ([]*model.Subscriber, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	return s.subscribers.List(ctx, opts)
}

// Delete removes username and their job definitions.
func (s *SubscriberService) Delete(ctx context.Context, username string) (bool, error) {
	ok, err := s.subscribers.Delete(ctx, username)
	if err != nil {
		return false, err
	}
	s.invalidate(ctx, username)
	return ok, nil
}

// Recount rebuilds counters from SUCCESS logs. An empty username recounts everyone,
// in which case cached views simply age out.
func (s *SubscriberService) Recount(ctx context.Context, username string) (int64, error) {
	n, err := s.subscribers.Recount(ctx, username)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, username)
	s.logger.InfoContext(ctx, "subscriber counters recounted", "username", username, "updated", n)
	return n, nil
}

func (s *SubscriberService) invalidate(ctx context.Context, username string) {
	if err := s.views.Invalidate(ctx, username); err != nil {
		s.logger.WarnContext(ctx, "invalidate subscriber view", "username", username, "error", err)
	}
}
