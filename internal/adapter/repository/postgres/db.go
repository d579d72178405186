package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// schema holds the tables used by the installment plan repository
// Amounts are stored as NUMERIC together with the scale they were computed at
var schema = []string{
	`CREATE TABLE IF NOT EXISTS installment_plans (
		id UUID PRIMARY KEY,
		description TEXT NOT NULL DEFAULT '',
		total NUMERIC NOT NULL,
		scale INTEGER NOT NULL CHECK (scale >= 0),
		installments INTEGER NOT NULL CHECK (installments >= 2),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS installment_entries (
		id UUID PRIMARY KEY,
		plan_id UUID NOT NULL REFERENCES installment_plans(id) ON DELETE CASCADE,
		sequence INTEGER NOT NULL,
		amount NUMERIC NOT NULL,
		due_date DATE NOT NULL,
		UNIQUE (plan_id, sequence)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_installment_plans_created_at ON installment_plans (created_at DESC)`,
}

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=sdl sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// EnsureSchema creates the installment tables if they do not exist yet
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
