// Package db provides database connection infrastructure.
// This is part of the platform layer and contains no business logic.
package db

import (
	"context"
	"strconv"
	"time"

	"sales_quotation_backend/platform/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultMaxConns = 10

// NewPool opens the Postgres pool and pings it once.
func NewPool(ctx context.Context, cfg config.PoolConfig) (*pgxpool.Pool, error) {
	poolConfig, err := newPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// newPoolConfig sizes the pool from cfg. A recalculation holds one connection at a
// time, so DB_MAX_CONNS should cover worker plus backfill concurrency.
func newPoolConfig(cfg config.PoolConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetDatabaseURL())
	if err != nil {
		return nil, err
	}

	maxConns := cfg.GetDatabaseMaxConns()
	if maxConns < 1 {
		maxConns = defaultMaxConns
	}
	poolConfig.MaxConns = int32(maxConns)
	poolConfig.MinConns = int32(min(2, maxConns))
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	params := poolConfig.ConnConfig.RuntimeParams
	if name := cfg.GetDatabaseApplicationName(); name != "" {
		params["application_name"] = name
	}
	if timeout := cfg.GetDatabaseStatementTimeout(); timeout > 0 {
		params["statement_timeout"] = strconv.FormatInt(timeout.Milliseconds(), 10)
	}

	return poolConfig, nil
}
