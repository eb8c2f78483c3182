package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/target/reportd/config"
	"github.com/target/reportd/internal/bootstrap"
	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/data"
)

type connectInfraOptions struct {
	Logger    *slog.Logger
	Config    *config.AppConfig
	WantRedis bool
}

var (
	errRedisNotConfigured = errors.New("redis not configured")
	errRedisNotWanted     = errors.New("redis not wanted")
)

// infra holds the connections a command opened.
type infra struct {
	DB    *sql.DB
	Redis redis.UniversalClient
}

// Close releases every connection.
func (i *infra) Close() error {
	var closeErr error
	if i.DB != nil {
		if err := i.DB.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close db: %w", err))
		}
	}
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close redis: %w", err))
		}
	}
	return closeErr
}

// viewCache returns a subscriber view cache backed by Redis when it is connected, so that
// admin writes invalidate the entries the running service reads.
func (i *infra) viewCache(cfg *config.AppConfig, logger *slog.Logger) *core.SubscriberViewCache {
	opts := core.SubscriberViewCacheOptions{
		Subscribers: data.NewSubscriberRepo(i.DB),
		Config:      core.SubscriberViewCacheConfig{TTL: cfg.Cache.SubscriberViewTTL},
		Logger:      logger,
	}
	if i.Redis != nil && cfg.Cache.Enabled {
		opts.Cache = data.NewRedisCacheRepo(i.Redis)
	}
	return core.NewSubscriberViewCache(opts)
}

// withInfra connects, runs fn and closes everything afterwards.
func withInfra(ctx context.Context, opts *connectInfraOptions, fn func(context.Context, *infra) error) (err error) {
	conns, err := connectInfra(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := conns.Close(); closeErr != nil {
			opts.Logger.Warn("close infrastructure failed", "error", closeErr)
		}
	}()
	return fn(ctx, conns)
}

func connectInfra(ctx context.Context, opts *connectInfraOptions) (*infra, error) {
	db, err := bootstrap.ConnectDB(ctx, opts.Config.Postgres, opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	redisClient, err := attachRedisClient(ctx, &attachRedisClientRequest{
		Logger:    opts.Logger,
		Config:    &opts.Config.Redis,
		DB:        db,
		WantRedis: opts.WantRedis,
	})
	if err != nil && !errors.Is(err, errRedisNotWanted) && !errors.Is(err, errRedisNotConfigured) {
		return nil, err
	}

	return &infra{DB: db, Redis: redisClient}, nil
}

type attachRedisClientRequest struct {
	Logger    *slog.Logger
	Config    *config.RedisConfig
	DB        *sql.DB
	WantRedis bool
}

// attachRedisClient connects Redis when the command wants it and configuration is present.
// On a connection failure the database handle is closed as well.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func attachRedisClient(ctx context.Context, req *attachRedisClientRequest) (redis.UniversalClient, error) {
	if !req.WantRedis {
		return nil, errRedisNotWanted
	}
	if !hasRedisConfig(req.Config) {
		req.Logger.Info("no redis configuration detected; skipping redis connection")
		return nil, errRedisNotConfigured
	}

	client, err := bootstrap.ConnectRedis(ctx, *req.Config, req.Logger)
	if err == nil {
		return client, nil
	}
	err = fmt.Errorf("connect redis: %w", err)
	if req.DB != nil {
		if closeErr := req.DB.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close db: %w", closeErr))
		}
	}
	return nil, err
}

func hasRedisConfig(cfg *config.RedisConfig) bool {
	if cfg == nil {
		return false
	}
	if cfg.UseCluster {
		return len(cfg.ClusterNodes) > 0 || cfg.URI != ""
	}
	if cfg.UseSentinel {
		return len(cfg.SentinelNodes) > 0
	}
	return cfg.URI != ""
}
