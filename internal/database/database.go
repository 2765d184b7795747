package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/streamtube/backend/internal/config"
	"github.com/streamtube/backend/internal/metrics"
)

// DB wraps the database connection pool
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection
func New(cfg config.DatabaseConfig) (*DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d pool_min_conns=%d",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
		cfg.MaxConns, cfg.MinConns,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Set connection pool settings
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	poolConfig.ConnConfig.Tracer = queryMetricsTracer{}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Ping the database to verify connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Health checks if the database is healthy
func (db *DB) Health(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// queryMetricsTracer times every query through the pool and feeds the
// database operation metrics, labeled by the leading SQL verb.
type queryMetricsTracer struct{}

type queryStartKey struct{}

type queryStart struct {
	verb string
	at   time.Time
}

func (queryMetricsTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{verb: queryVerb(data.SQL), at: time.Now()})
}

func (queryMetricsTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}

	// No rows is a domain outcome, not a database failure
	status := "success"
	if data.Err != nil && data.Err != pgx.ErrNoRows {
		status = "error"
	}

	metrics.RecordDatabaseOperation(start.verb, status, time.Since(start.at).Seconds())
}

func queryVerb(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}

// migrations are ordered, idempotent DDL statements. The partial unique
// indexes on likes and the unique pair on subscriptions are load-bearing:
// the toggle engine relies on them to collapse concurrent duplicate
// creates. Cross-entity references (likes targets, watch history) carry no
// foreign keys on purpose: cascade cleanup is best-effort and a stale id
// left behind by a crashed cascade must not block anything.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		avatar_url TEXT NOT NULL DEFAULT '',
		cover_image_url TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		refresh_token TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS videos (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		video_url TEXT NOT NULL,
		video_storage_id TEXT NOT NULL,
		thumbnail_url TEXT NOT NULL,
		thumbnail_storage_id TEXT NOT NULL,
		duration DOUBLE PRECISION NOT NULL DEFAULT 0,
		views BIGINT NOT NULL DEFAULT 0,
		is_published BOOLEAN NOT NULL DEFAULT true,
		owner_id UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_videos_owner ON videos (owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_videos_published_created ON videos (is_published, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id UUID PRIMARY KEY,
		content TEXT NOT NULL,
		video_id UUID NOT NULL,
		owner_id UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_video_created ON comments (video_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS tweets (
		id UUID PRIMARY KEY,
		content TEXT NOT NULL,
		owner_id UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tweets_owner_created ON tweets (owner_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS likes (
		id UUID PRIMARY KEY,
		video_id UUID,
		comment_id UUID,
		tweet_id UUID,
		liked_by UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT likes_single_target CHECK (
			(video_id IS NOT NULL)::int + (comment_id IS NOT NULL)::int + (tweet_id IS NOT NULL)::int = 1
		)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_likes_video ON likes (video_id, liked_by) WHERE video_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_likes_comment ON likes (comment_id, liked_by) WHERE comment_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_likes_tweet ON likes (tweet_id, liked_by) WHERE tweet_id IS NOT NULL`,
	`CREATE TABLE IF NOT EXISTS subscriptions (
		id UUID PRIMARY KEY,
		subscriber_id UUID NOT NULL,
		channel_id UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT subscriptions_no_self CHECK (subscriber_id <> channel_id),
		CONSTRAINT uniq_subscription UNIQUE (subscriber_id, channel_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_subscriptions_channel ON subscriptions (channel_id)`,
	`CREATE TABLE IF NOT EXISTS playlists (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		owner_id UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS playlist_videos (
		playlist_id UUID NOT NULL,
		video_id UUID NOT NULL,
		position INT NOT NULL,
		added_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT uniq_playlist_video UNIQUE (playlist_id, video_id)
	)`,
	`CREATE TABLE IF NOT EXISTS watch_history (
		user_id UUID NOT NULL,
		video_id UUID NOT NULL,
		watched_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT uniq_watch_entry UNIQUE (user_id, video_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_watch_history_user ON watch_history (user_id, watched_at DESC)`,
}

// Migrate applies the schema. Safe to run on every startup.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply migration: %w", err)
		}
	}
	return nil
}
