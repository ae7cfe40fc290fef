package storage

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"superhost-analysis/models"
)

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "clean.csv")
	w, err := NewCSVWriter(path)
	require.NoError(t, err)

	require.NoError(t, w.Write(context.Background(), "run1", sampleListings()))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	header := records[0]
	assert.Equal(t, "run_id", header[0])
	assert.Equal(t, "id", header[1])
	assert.Len(t, header, len(listingColumns)+1)

	row := map[string]string{}
	for i, name := range header {
		row[name] = records[1][i]
	}
	assert.Equal(t, "run1", row["run_id"])
	assert.Equal(t, "2818", row["id"])
	assert.Equal(t, "59", row["price_dollar"])
	assert.Equal(t, "true", row["host_is_superhost"])
	assert.Equal(t, "2022-02-14", row["last_review"])
	assert.Equal(t, "5", row["review_scores_rating_bin"])
	assert.Equal(t, "", row["host_acceptance_rate"])
}

func TestSQLiteWriter(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "listings.sqlite")
	w, err := NewSQLiteWriter(ctx, path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Write(ctx, "run1", sampleListings()))
	require.NoError(t, w.Write(ctx, "run2", sampleListings()[:1]))
	// rewriting a run replaces its rows
	require.NoError(t, w.Write(ctx, "run1", sampleListings()))

	n, err := w.Count(ctx, "run1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = w.Count(ctx, "run2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var superhost int
	var acceptance any
	err = w.db.QueryRowContext(ctx,
		`SELECT host_is_superhost, host_acceptance_rate FROM listings WHERE run_id = ? AND id = ?`, "run1", "2818").
		Scan(&superhost, &acceptance)
	require.NoError(t, err)
	assert.Equal(t, 1, superhost)
	assert.Nil(t, acceptance)
}

func TestExcelWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	report := &models.HostReport{
		RunID:         "run1",
		GeneratedAt:   time.Date(2022, 3, 8, 12, 0, 0, 0, time.UTC),
		TotalListings: 2,
		Superhosts:    1,
		RegularHosts:  1,
		Metrics: []models.MetricComparison{
			{Metric: "price_dollar", SuperhostMean: 59, HostMean: 236, SuperhostN: 1, HostN: 1, Significance: "n/a"},
		},
	}
	tables := []models.PercentTable{{
		Name:  "host_type/room_type",
		Outer: "host_type",
		Inner: []string{"room_type"},
		Rows: []models.PercentRow{
			{Outer: "Host", Inner: []string{"Private room"}, Count: 1, Percent: 100},
			{Outer: "Superhost", Inner: []string{"Private room"}, Count: 1, Percent: 100},
		},
	}}

	var w SummaryWriter = NewExcelWriter(path)
	require.NoError(t, w.WriteSummary(report, tables))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Metrics", "Review scores", "host_type_room_type"}, f.GetSheetList())

	rows, err := f.GetRows("Metrics")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "price_dollar", rows[1][0])

	rows, err = f.GetRows("host_type_room_type")
	require.NoError(t, err)
	assert.Equal(t, []string{"host_type", "room_type", "count", "percent"}, rows[0])
	assert.Equal(t, []string{"Host", "Private room", "1", "100"}, rows[1])

	v, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "run1", v)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "a_b", sheetName("a/b"))
	assert.Equal(t, "table", sheetName(""))
	assert.Len(t, []rune(sheetName("neighbourhood_cleansed_by_host_type_percent")), maxSheetName)
}
