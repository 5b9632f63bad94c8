package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/simonvc/ledgerbook/internal/ledger"
)

// Initialize ensures the schema exists. It is idempotent and leaves existing
// rows untouched, including databases created before schema_version existed.
func (s *Store) Initialize(ctx context.Context) error {
	if err := s.migrate(ctx); err != nil {
		return fmt.Errorf("%w: initialize %s: %w", ledger.ErrStorageUnavailable, s.path, err)
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version < 1 {
		if err := migrateV1(ctx, tx); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return tx.Commit()
}

func migrateV1(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		// Column order is relied on by the history tables.
		`CREATE TABLE IF NOT EXISTS transactions (
			id                INTEGER PRIMARY KEY,
			customer_supplier TEXT,
			type              TEXT NOT NULL,
			description       TEXT,
			price             REAL NOT NULL,
			vat               REAL NOT NULL,
			total             REAL NOT NULL,
			date              TEXT,
			category          TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_type ON transactions(type)`,

		`INSERT INTO schema_version (version) VALUES (1)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	for i, r := range stmt {
		if r == '\n' {
			return stmt[:i]
		}
	}
	return stmt
}
