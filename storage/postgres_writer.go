package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"superhost-analysis/models"
	"superhost-analysis/utils"
)

const listingsTable = "listings"

// PostgresWriter persists cleaned listings to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: 10, BaseDelay: 500 * time.Millisecond, Logger: logger}
	if err := retry.Do(ctx, "postgres-ping", db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	defs := make([]string, 0, len(listingColumns)+1)
	defs = append(defs, "run_id TEXT NOT NULL")
	for _, c := range listingColumns {
		defs = append(defs, fmt.Sprintf("%s %s", c.name, c.postgresType()))
	}
	defs = append(defs, "created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()", "PRIMARY KEY (run_id, id)")

	_, err := pw.db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			%[2]s
		);

		CREATE INDEX IF NOT EXISTS idx_%[1]s_host_type     ON %[1]s(host_type);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_neighbourhood ON %[1]s(neighbourhood_cleansed);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_price         ON %[1]s(price_dollar);
	`, listingsTable, strings.Join(defs, ",\n\t\t\t")))
	return err
}

// Clear deletes the listings stored for runID.
func (pw *PostgresWriter) Clear(ctx context.Context, runID string) error {
	_, err := pw.db.ExecContext(ctx, "DELETE FROM "+listingsTable+" WHERE run_id = $1", runID)
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts all listings under runID, replacing rows of an earlier
// write with the same id.
func (pw *PostgresWriter) Write(ctx context.Context, runID string, listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	if err := pw.Clear(ctx, runID); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := pw.insertBatch(ctx, runID, listings[i:end]); err != nil {
			return fmt.Errorf("postgres: insert batch at %d: %w", i, err)
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(ctx context.Context, runID string, batch []*models.Listing) error {
	width := len(listingColumns) + 1
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*width)

	for idx, l := range batch {
		placeholders := make([]string, width)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", idx*width+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs, runID)
		valueArgs = append(valueArgs, rowValues(l)...)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, %s)
		VALUES %s
		ON CONFLICT (run_id, id) DO NOTHING
	`, listingsTable, strings.Join(columnNames(), ", "), strings.Join(valueStrings, ","))

	_, err := pw.db.ExecContext(ctx, query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
