package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver
	"github.com/redis/go-redis/v9"
	"github.com/target/reportd/config"
	"github.com/target/reportd/internal/migrate"
)

const (
	connectTimeout  = 5 * time.Second
	connMaxLifetime = 5 * time.Minute
)

// ConnectDB opens the PostgreSQL pool described by cfg and verifies it with a ping.
func ConnectDB(ctx context.Context, cfg config.DBConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 20
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(max(2, maxOpen/4))
	db.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, errors.Join(fmt.Errorf("ping database: %w", err), closeWrap("database", db.Close()))
	}

	if logger != nil {
		logger.InfoContext(ctx, "database connected", "host", cfg.Host, "port", cfg.Port, "database", cfg.Name)
	}
	return db, nil
}

// ConnectRedis builds a direct, sentinel or cluster client from cfg and pings it.
//
//nolint:ireturn // the concrete client type depends on the configured topology.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (redis.UniversalClient, error) {
	opts, desc, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewUniversalClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, errors.Join(fmt.Errorf("ping redis: %w", err), closeWrap("redis client", client.Close()))
	}

	if logger != nil {
		logger.InfoContext(ctx, "redis connected", "addr", desc)
	}
	return client, nil
}

// redisOptions resolves cfg into universal client options plus a credential-free
// description for logs. Cluster wins over sentinel, sentinel over direct.
func redisOptions(cfg config.RedisConfig) (*redis.UniversalOptions, string, error) {
	switch {
	case cfg.UseCluster:
		opts := &redis.UniversalOptions{
			Addrs:         trimAll(cfg.ClusterNodes),
			Password:      cfg.Password,
			IsClusterMode: true,
		}
		if len(opts.Addrs) == 0 && strings.TrimSpace(cfg.URI) != "" {
			if err := applyURI(opts, cfg.URI); err != nil {
				return nil, "", fmt.Errorf("parse redis cluster url: %w", err)
			}
		}
		if len(opts.Addrs) == 0 {
			return nil, "", errors.New("redis cluster configuration requires at least one address")
		}
		return opts, "cluster:" + strings.Join(opts.Addrs, ","), nil

	case cfg.UseSentinel:
		nodes := trimAll(cfg.SentinelNodes)
		if len(nodes) == 0 {
			return nil, "", errors.New("redis sentinel configuration requires at least one sentinel node")
		}
		return &redis.UniversalOptions{
			Addrs:            nodes,
			MasterName:       cfg.SentinelMasterName,
			Password:         cfg.Password,
			SentinelPassword: cfg.SentinelPassword,
		}, "sentinel:" + cfg.SentinelMasterName, nil

	default:
		uri := strings.TrimSpace(cfg.URI)
		if uri == "" {
			return nil, "", errors.New("redis direct configuration requires a URI")
		}
		opts := &redis.UniversalOptions{Password: cfg.Password}
		if err := applyURI(opts, uri); err != nil {
			return nil, "", fmt.Errorf("parse redis url: %w", err)
		}
		return opts, opts.Addrs[0], nil
	}
}

// applyURI accepts either a bare host:port or a redis:// / rediss:// URL.
// Credentials embedded in a URL override cfg.Password.
func applyURI(opts *redis.UniversalOptions, uri string) error {
	uri = strings.TrimSpace(uri)
	if !strings.HasPrefix(uri, "redis://") && !strings.HasPrefix(uri, "rediss://") {
		opts.Addrs = []string{uri}
		return nil
	}

	parsed, err := redis.ParseURL(uri)
	if err != nil {
		return err
	}
	opts.Addrs = []string{parsed.Addr}
	opts.Username = parsed.Username
	if parsed.Password != "" {
		opts.Password = parsed.Password
	}
	opts.DB = parsed.DB
	opts.TLSConfig = parsed.TLSConfig
	return nil
}

func trimAll(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func closeWrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("close %s: %w", what, err)
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if err := migrate.Run(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if logger != nil {
		logger.InfoContext(ctx, "database migrations completed")
	}
	return nil
}
