package database

import (
	"context"
	"fmt"
	"time"

	"furnistore/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// NewPool creates a new PostgreSQL connection pool.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Int("max_connections", cfg.MaxConnections).
		Msg("creating database connection pool")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Msg("database connection pool created")

	return pool, nil
}

// catalogSchema is the products table read by the PostgreSQL catalog.
const catalogSchema = `
	CREATE TABLE IF NOT EXISTS products (
		id             VARCHAR(50) PRIMARY KEY,
		name           VARCHAR(255) NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		category       VARCHAR(100) NOT NULL DEFAULT '',
		image          TEXT NOT NULL DEFAULT '',
		price          NUMERIC(14, 2) NOT NULL CHECK (price >= 0),
		discount_price NUMERIC(14, 2) CHECK (discount_price >= 0),
		stock          INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		created_at     TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);
`

// EnsureSchema creates the catalog tables when they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, catalogSchema); err != nil {
		return fmt.Errorf("failed to create catalog schema: %w", err)
	}
	return nil
}
