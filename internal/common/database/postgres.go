// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"loan-clarity-resolver/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres creates a new PostgreSQL client
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	dsn := cfg.GetDSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// QueryRow executes a query that returns at most one row
func (c *PostgresClient) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return c.DB.QueryRowContext(ctx, query, args...)
}

// Exec executes a query that doesn't return rows
func (c *PostgresClient) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return c.DB.ExecContext(ctx, query, args...)
}

// EnsureSchema creates the profile table if it does not exist yet.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS loan_profiles (
			user_id    TEXT PRIMARY KEY,
			profile    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, err := c.DB.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
