package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"grievance/internal/config"
	"grievance/pkg/e"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	Pool       *pgxpool.Pool
	Complaints *Complaints
	Stats      *Stats
}

func NewPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Postgres, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Database,
		cfg.Postgres.SSLMode,
	)

	logger.Info("Connecting to Postgres",
		slog.String("host", cfg.Postgres.Host),
		slog.Int("port", cfg.Postgres.Port),
		slog.String("db", cfg.Postgres.Database))

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("Failed to parse pgx config", slog.String("error", err.Error()))
		return nil, e.Wrap("storage.pg.NewPostgres.ParseConfig", err)
	}
	if cfg.Postgres.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolCfg.MinConns = cfg.Postgres.MinConns
	}
	if cfg.Postgres.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.Postgres.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Error("Failed to create pgx pool", slog.String("error", err.Error()))
		return nil, e.Wrap("storage.pg.NewPostgres.NewWithConfig", err)
	}

	logger.Info("Pinging Postgres database")
	if err := pool.Ping(ctx); err != nil {
		logger.Error("Failed to ping Postgres database", slog.String("error", err.Error()))
		pool.Close()
		return nil, e.Wrap("storage.pg.NewPostgres.Ping", err)
	}
	logger.Info("Connected to Postgres successfully")

	if cfg.Postgres.AutoMigrate {
		if err := Migrate(ctx, pool); err != nil {
			logger.Error("Failed to migrate schema", slog.String("error", err.Error()))
			pool.Close()
			return nil, err
		}
		logger.Info("Postgres schema is up to date")
	}

	return New(pool, cfg.Postgres.QueryTimeout, logger), nil
}

// New wires the repositories over an existing pool.
func New(pool *pgxpool.Pool, queryTimeout time.Duration, logger *slog.Logger) *Postgres {
	return &Postgres{
		Pool:       pool,
		Complaints: NewComplaints(pool, queryTimeout, logger),
		Stats:      NewStats(pool, queryTimeout, logger),
	}
}

func (p *Postgres) Close() {
	p.Pool.Close()
}

const schema = `
CREATE EXTENSION IF NOT EXISTS postgis;

CREATE TABLE IF NOT EXISTS complaints (
	id                        uuid PRIMARY KEY,
	category                  text NOT NULL CHECK (length(category) > 0),
	description               text NOT NULL DEFAULT '',
	location                  text NOT NULL DEFAULT '',
	geo_point                 geography(Point, 4326),
	geo_address               text NOT NULL DEFAULT '',
	geo_formatted_address     text NOT NULL DEFAULT '',
	outside_region            boolean NOT NULL DEFAULT false,
	priority                  text NOT NULL DEFAULT 'Medium'
		CHECK (priority IN ('Low', 'Medium', 'High', 'Critical')),
	status                    text NOT NULL DEFAULT 'Registered'
		CHECK (status IN ('Registered', 'Processing', 'Review', 'Resolved', 'Closed', 'Reopened')),
	created_by                text NOT NULL,
	assigned_to               text,
	created_at                timestamptz NOT NULL,
	updated_at                timestamptz NOT NULL,
	estimated_resolution_date timestamptz,
	actual_resolution_date    timestamptz,
	attachments               jsonb NOT NULL DEFAULT '[]'::jsonb,
	admin_comments            jsonb NOT NULL DEFAULT '[]'::jsonb,
	citizen_feedback          jsonb,
	tags                      text[] NOT NULL DEFAULT '{}',
	is_urgent                 boolean NOT NULL DEFAULT false,
	related_complaints        uuid[] NOT NULL DEFAULT '{}',
	status_history            jsonb NOT NULL DEFAULT '[]'::jsonb,
	CONSTRAINT complaints_updated_after_created CHECK (updated_at >= created_at)
);

CREATE INDEX IF NOT EXISTS complaints_geo_point_gist ON complaints USING GIST (geo_point);
CREATE INDEX IF NOT EXISTS complaints_owner_created_idx ON complaints (created_by, created_at DESC);
CREATE INDEX IF NOT EXISTS complaints_created_idx ON complaints (created_at DESC);
`

// Migrate applies the schema. Safe to run on every start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	const op = "storage.pg.Migrate"

	if _, err := pool.Exec(ctx, schema); err != nil {
		return e.WrapError(ctx, op, err)
	}
	return nil
}
