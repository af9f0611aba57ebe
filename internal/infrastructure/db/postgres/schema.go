package postgres

import (
	"context"
	"database/sql"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS operators (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  display_name TEXT NULL,
  password_hash TEXT NOT NULL,
  email_verified BOOLEAN NOT NULL DEFAULT FALSE,
  locked BOOLEAN NOT NULL DEFAULT FALSE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	`ALTER TABLE operators ADD COLUMN IF NOT EXISTS display_name TEXT NULL;`,
}

// EnsureSchema creates the operators table. Safe to run on every boot.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return domain.ErrDBUnavailable(err)
		}
	}
	return nil
}
