package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"superhost-analysis/models"
)

// CSVWriter writes cleaned listings, derived columns included, to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(append([]string{"run_id"}, columnNames()...)); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends one row per listing.
func (c *CSVWriter) Write(ctx context.Context, runID string, listings []*models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	row := make([]string, len(listingColumns)+1)
	for _, l := range listings {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("csv: write cancelled: %w", err)
		}
		row[0] = runID
		for i, v := range rowValues(l) {
			row[i+1] = formatValue(v)
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
