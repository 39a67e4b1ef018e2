package postgres

import (
	"context"
	"log/slog"
	"time"

	"grievance/internal/domain"
	"grievance/pkg/e"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Stats struct {
	pool    *pgxpool.Pool
	timeout time.Duration
	logger  *slog.Logger
}

func NewStats(pool *pgxpool.Pool, timeout time.Duration, logger *slog.Logger) *Stats {
	return &Stats{pool: pool, timeout: timeout, logger: logger}
}

// Snapshot reads every aggregate inside one repeatable-read transaction so
// the breakdowns always sum to the total. Monthly buckets start at since.
func (p *Stats) Snapshot(ctx context.Context, since time.Time) (*domain.StatsSnapshot, error) {
	const op = "postgres.Stats.Snapshot"

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		p.logger.Error("begin tx failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	snap := &domain.StatsSnapshot{
		ByStatus:   map[string]int64{},
		ByCategory: map[string]int64{},
		ByPriority: map[string]int64{},
		Monthly:    map[time.Time]int64{},
	}

	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM complaints`).Scan(&snap.Total); err != nil {
		p.logger.Error("db count failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	groups := []struct {
		column string
		into   map[string]int64
	}{
		{"status", snap.ByStatus},
		{"category", snap.ByCategory},
		{"priority", snap.ByPriority},
	}
	for _, g := range groups {
		// column names come from the fixed list above
		if err := collectCounts(ctx, tx, `SELECT `+g.column+`, COUNT(*) FROM complaints GROUP BY 1`, g.into); err != nil {
			p.logger.Error("db group query failed", slog.String("op", op), slog.String("column", g.column), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
	}

	const monthly = `
		SELECT date_trunc('month', created_at AT TIME ZONE 'UTC') AS month, COUNT(*)
		FROM complaints
		WHERE created_at >= $1
		GROUP BY 1
	`
	rows, err := tx.Query(ctx, monthly, since)
	if err != nil {
		p.logger.Error("db monthly query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	for rows.Next() {
		var month time.Time
		var n int64
		if err := rows.Scan(&month, &n); err != nil {
			rows.Close()
			return nil, e.WrapError(ctx, op, err)
		}
		m := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
		snap.Monthly[m] += n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, e.WrapError(ctx, op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, e.WrapError(ctx, op, err)
	}

	return snap, nil
}

func collectCounts(ctx context.Context, tx pgx.Tx, query string, into map[string]int64) error {
	rows, err := tx.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		into[key] = n
	}
	return rows.Err()
}
