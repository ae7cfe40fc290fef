package storage

import (
	"context"

	"superhost-analysis/models"
)

// ListingWriter is the interface any storage backend for cleaned listings must satisfy.
// Rows are tagged with the run id so repeated runs can coexist.
type ListingWriter interface {
	Write(ctx context.Context, runID string, listings []*models.Listing) error
	Close() error
}

// SummaryWriter persists the host comparison report and its percent tables.
type SummaryWriter interface {
	WriteSummary(report *models.HostReport, tables []models.PercentTable) error
}
