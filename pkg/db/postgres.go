package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config holds database connection pool settings.
// Sensible defaults are applied by DefaultConfig().
type Config struct {
	URI             string
	AppName         string
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	ConnectTimeout  time.Duration
}

// DefaultConfig returns pool settings sized for a read-mostly catalog.
// Override individual fields as needed.
func DefaultConfig(uri string) Config {
	return Config{
		URI:             uri,
		AppName:         "hr-workflow-designer",
		MaxConns:        4,
		MinConns:        1,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		ConnectTimeout:  5 * time.Second,
	}
}

func (c Config) validate() error {
	if c.URI == "" {
		return fmt.Errorf("database URI is empty")
	}
	if c.MaxConns < 1 {
		return fmt.Errorf("max conns must be at least 1, got %d", c.MaxConns)
	}
	if c.MinConns > c.MaxConns {
		return fmt.Errorf("min conns (%d) exceeds max conns (%d)", c.MinConns, c.MaxConns)
	}
	return nil
}

// Connect creates a PostgreSQL connection pool using the provided config
// and verifies connectivity with a ping.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid database config: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URI: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}
	if cfg.AppName != "" {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
