package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Every lottery operation locks the single lottery_state and treasury_ledger
// rows, so writers serialize there and a small pool is enough.
const (
	maxConns          = 8
	minConns          = 1
	healthCheckPeriod = 30 * time.Second
	lockTimeout       = "5s"
)

// DB represents a database connection pool
type DB struct {
	*pgxpool.Pool
}

// NewConnection opens the pool and pings it once.
func NewConnection(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := parsePoolConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// parsePoolConfig applies the service defaults. pool_max_conns and
// pool_min_conns in the URL take precedence.
func parsePoolConfig(databaseURL string) (*pgxpool.Config, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	params := config.ConnConfig.Config.RuntimeParams
	// Draw and purchase timestamps are stored and compared in UTC.
	params["timezone"] = "UTC"
	params["application_name"] = "prizepool"
	// Waits on the lottery_state row lock fail after lockTimeout.
	params["lock_timeout"] = lockTimeout

	if !hasParam(databaseURL, "pool_max_conns") {
		config.MaxConns = maxConns
	}
	if !hasParam(databaseURL, "pool_min_conns") {
		config.MinConns = minConns
	}
	config.HealthCheckPeriod = healthCheckPeriod

	return config, nil
}

// hasParam reports whether a URL query or keyword/value DSN sets key.
func hasParam(databaseURL, key string) bool {
	return strings.Contains(databaseURL, key+"=")
}

// Close closes the database connection pool
func (db *DB) Close() {
	db.Pool.Close()
}
