package aliasstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"kabudash/internal/domain"
)

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const aliasSchema = `
CREATE TABLE IF NOT EXISTS aliases (
	ticker TEXT NOT NULL,
	alias  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_aliases_ticker ON aliases (ticker);
`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the alias table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(aliasSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating alias schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Snapshot returns the full alias table in insertion order.
func (s *SQLiteStore) Snapshot(ctx context.Context) ([]domain.AliasRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ticker, alias FROM aliases ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.AliasRecord
	for rows.Next() {
		var r domain.AliasRecord
		if err := rows.Scan(&r.Ticker, &r.Alias); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Replace swaps the whole table for the given rows inside one transaction.
// Rows are cleaned first; an empty input empties the table.
func (s *SQLiteStore) Replace(ctx context.Context, records []domain.AliasRecord) error {
	records = Clean(records)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM aliases`); err != nil {
		return fmt.Errorf("clearing aliases: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO aliases (ticker, alias) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Ticker, r.Alias); err != nil {
			return fmt.Errorf("inserting alias %s: %w", r.Ticker, err)
		}
	}
	return tx.Commit()
}
