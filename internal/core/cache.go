package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/target/reportd/internal/domain/model"
)

// CacheRepository is the key/value cache used for read-through views.
type CacheRepository interface {
	// Set stores value under key. A zero TTL means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get returns nil, nil for a missing or expired key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete reports whether the key existed.
	Delete(ctx context.Context, key string) (bool, error)
	Health(ctx context.Context) error
}

// SubscriberViewCache serves subscriber views from the cache, falling back to the store.
// Cache failures degrade to store reads; the store stays authoritative.
type SubscriberViewCache struct {
	cache       CacheRepository
	subscribers SubscriberStore
	ttl         time.Duration
	logger      *slog.Logger
}

// SubscriberViewCacheConfig holds configuration for subscriber view caching.
type SubscriberViewCacheConfig struct {
	TTL time.Duration `json:"ttl"`
}

// SubscriberViewCacheOptions bundles dependencies for NewSubscriberViewCache.
type SubscriberViewCacheOptions struct {
	Cache       CacheRepository
	Subscribers SubscriberStore
	Config      SubscriberViewCacheConfig
	Logger      *slog.Logger
}

// DefaultSubscriberViewCacheConfig returns a SubscriberViewCacheConfig with sensible defaults.
func DefaultSubscriberViewCacheConfig() SubscriberViewCacheConfig {
	return SubscriberViewCacheConfig{TTL: 5 * time.Minute}
}

// NewSubscriberViewCache creates a new SubscriberViewCache. A nil cache disables caching.
func NewSubscriberViewCache(opts SubscriberViewCacheOptions) *SubscriberViewCache {
	ttl := opts.Config.TTL
	if ttl <= 0 {
		ttl = DefaultSubscriberViewCacheConfig().TTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SubscriberViewCache{
		cache:       opts.Cache,
		subscribers: opts.Subscribers,
		ttl:         ttl,
		logger:      logger.With("component", "subscriber_view_cache"),
	}
}

// View returns the subscriber view for username.
//
// A fill races with Invalidate: the store read can predate a counter bump whose
// invalidation lands before the Set. Invalidate rotates a generation key first, so
// a fill that sees the generation change drops what it just wrote.
func (c *SubscriberViewCache) View(ctx context.Context, username string) (*model.SubscriberView, error) {
	if view := c.cached(ctx, username); view != nil {
		return view, nil
	}

	var (
		gen    []byte
		genErr error = errCacheDisabled
	)
	if c.cache != nil {
		gen, genErr = c.cache.Get(ctx, subscriberGenKey(username))
	}

	sub, err := c.subscribers.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	view := sub.View()

	if genErr == nil {
		c.fill(ctx, username, view, gen)
	}
	return view, nil
}

func (c *SubscriberViewCache) fill(ctx context.Context, username string, view *model.SubscriberView, gen []byte) {
	key := subscriberViewKey(username)
	raw, err := json.Marshal(view)
	if err == nil {
		err = c.cache.Set(ctx, key, raw, c.ttl)
	}
	if err != nil {
		c.logger.WarnContext(ctx, "subscriber view cache write failed", "username", username, "error", err)
		return
	}

	current, err := c.cache.Get(ctx, subscriberGenKey(username))
	if err == nil && bytes.Equal(current, gen) {
		return
	}
	if _, err := c.cache.Delete(ctx, key); err != nil {
		c.logger.WarnContext(ctx, "subscriber view cache rollback failed", "username", username, "error", err)
	}
}

// Invalidate drops the cached view of username and rotates its generation.
func (c *SubscriberViewCache) Invalidate(ctx context.Context, username string) error {
	if c.cache == nil || username == "" {
		return nil
	}
	genErr := c.cache.Set(ctx, subscriberGenKey(username), []byte(uuid.NewString()), c.ttl)
	_, err := c.cache.Delete(ctx, subscriberViewKey(username))
	return errors.Join(genErr, err)
}

func (c *SubscriberViewCache) cached(ctx context.Context, username string) *model.SubscriberView {
	if c.cache == nil {
		return nil
	}
	raw, err := c.cache.Get(ctx, subscriberViewKey(username))
	if err != nil {
		c.logger.WarnContext(ctx, "subscriber view cache read failed", "username", username, "error", err)
		return nil
	}
	if len(raw) == 0 {
		return nil
	}
	var view model.SubscriberView
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil
	}
	return &view
}

var errCacheDisabled = errors.New("cache disabled")

func subscriberViewKey(username string) string {
	return "subscriber:view:" + username
}

func subscriberGenKey(username string) string {
	return "subscriber:view-gen:" + username
}
