package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"superhost-analysis/models"
)

// SQLiteWriter persists cleaned listings to a local SQLite file.
type SQLiteWriter struct {
	db *sql.DB
}

// NewSQLiteWriter opens (or creates) the database at path and ensures the listings table exists.
func NewSQLiteWriter(ctx context.Context, path string) (*SQLiteWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("sqlite: create output dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// a single connection keeps writes serialised
	db.SetMaxOpenConns(1)

	defs := []string{`"run_id" TEXT NOT NULL`}
	for _, c := range listingColumns {
		defs = append(defs, fmt.Sprintf("%q %s", c.name, c.sqliteType()))
	}
	defs = append(defs, `PRIMARY KEY ("run_id", "id")`)

	for _, stmt := range []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %q (%s)", listingsTable, strings.Join(defs, ",")),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%[1]s_host_type ON %[1]s(host_type)", listingsTable),
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: migrate: %w", err)
		}
	}
	return &SQLiteWriter{db: db}, nil
}

// Write replaces the rows stored for runID inside one transaction.
func (sw *SQLiteWriter) Write(ctx context.Context, runID string, listings []*models.Listing) error {
	tx, err := sw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %q WHERE run_id = ?", listingsTable), runID); err != nil {
		return fmt.Errorf("sqlite: clear: %w", err)
	}

	names := columnNames()
	quoted := make([]string, 0, len(names)+1)
	quoted = append(quoted, `"run_id"`)
	for _, n := range names {
		quoted = append(quoted, fmt.Sprintf("%q", n))
	}
	ph := strings.TrimRight(strings.Repeat("?,", len(quoted)), ",")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s)",
		listingsTable, strings.Join(quoted, ","), ph))
	if err != nil {
		return fmt.Errorf("sqlite: prepare: %w", err)
	}
	defer stmt.Close()

	for _, l := range listings {
		args := make([]any, 0, len(quoted))
		args = append(args, runID)
		for _, v := range rowValues(l) {
			args = append(args, sqliteValue(v))
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("sqlite: insert %s: %w", l.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// Count returns the number of rows stored for runID.
func (sw *SQLiteWriter) Count(ctx context.Context, runID string) (int, error) {
	var n int
	err := sw.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %q WHERE run_id = ?", listingsTable), runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: count: %w", err)
	}
	return n, nil
}

func (sw *SQLiteWriter) Close() error {
	return sw.db.Close()
}
