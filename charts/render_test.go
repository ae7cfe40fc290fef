package charts

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superhost-analysis/models"
	"superhost-analysis/utils"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	return NewRenderer(DefaultStyle(t.TempDir()), utils.NewLoggerWithLevel(io.Discard, "error"))
}

func testListings() []*models.Listing {
	var out []*models.Listing
	for i := 0; i < 12; i++ {
		super := i%3 == 0
		hostType := models.HostTypeHost
		if super {
			hostType = models.HostTypeSuperhost
		}
		out = append(out, &models.Listing{
			ID:                 string(rune('a' + i)),
			Latitude:           52.36 + float64(i)/1000,
			Longitude:          4.89 + float64(i)/1000,
			HostIsSuperhost:    sql.NullBool{Bool: super, Valid: true},
			HostType:           hostType,
			RoomType:           []string{"Entire home/apt", "Private room"}[i%2],
			Availability365:    sql.NullFloat64{Float64: float64(30 * i), Valid: true},
			ReviewScoresRating: sql.NullFloat64{Float64: 4 + float64(i%5)/5, Valid: i != 4},
		})
	}
	return out
}

func assertFiles(t *testing.T, out *Output) {
	t.Helper()
	require.NotNil(t, out)
	for _, p := range []string{out.PNG, out.HTML} {
		info, err := os.Stat(p)
		require.NoError(t, err, p)
		assert.Greater(t, info.Size(), int64(0), p)
	}
}

func TestBar(t *testing.T) {
	r := newTestRenderer(t)
	rows := []models.PercentRow{
		{Outer: "Host", Inner: []string{"Entire home/apt"}, Count: 4, Percent: 50},
		{Outer: "Host", Inner: []string{"Private room"}, Count: 4, Percent: 50},
		{Outer: "Superhost", Inner: []string{"Entire home/apt"}, Count: 3, Percent: 75},
		{Outer: "Superhost", Inner: []string{"Private room"}, Count: 1, Percent: 25},
	}

	out, err := r.Bar(rows, BarOptions{Name: "room_type", Horizontal: true, ShowLegend: true, LegendTitle: "Host type"})
	require.NoError(t, err)
	assertFiles(t, out)
	assert.Equal(t, filepath.Join(r.Style().OutDir, "room_type.png"), out.PNG)

	html, err := os.ReadFile(out.HTML)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<svg")

	out, err = r.Bar(rows, BarOptions{})
	require.NoError(t, err)
	assert.Equal(t, "bar.png", filepath.Base(out.PNG))
}

func TestBox(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Box(testListings(), "host_type", "review_scores_rating", BoxOptions{ShowLegend: true})
	require.NoError(t, err)
	assertFiles(t, out)
	assert.Equal(t, "box.png", filepath.Base(out.PNG))
}

func TestPie(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Pie(testListings(), "host_type", PieOptions{Name: "host_type", Title: "Listings by host type", ShowLegend: true})
	require.NoError(t, err)
	assertFiles(t, out)
}

func TestPieCountsOnlyLabelledListings(t *testing.T) {
	r := newTestRenderer(t)

	listings := append(testListings(), &models.Listing{ID: "unknown", Latitude: 52.37, Longitude: 4.89})
	out, err := r.Pie(listings, "host_type", PieOptions{Name: "host_type"})
	require.NoError(t, err)

	html, err := os.ReadFile(out.HTML)
	require.NoError(t, err)
	assert.Contains(t, string(html), "12 Listings")
	assert.NotContains(t, string(html), "13 Listings")
}

type fakeSnapshotter struct {
	err error
}

func (f fakeSnapshotter) Snapshot(_ context.Context, _, pngPath string) error {
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(pngPath, []byte("png"), 0644)
}

func TestMap(t *testing.T) {
	r := newTestRenderer(t).WithSnapshotter(fakeSnapshotter{})

	out, err := r.Map(context.Background(), testListings(), MapOptions{})
	require.NoError(t, err)
	assertFiles(t, out)
	assert.Equal(t, "map.html", filepath.Base(out.HTML))
	assert.Equal(t, "map_snapshot.png", filepath.Base(out.Snapshot))

	html, err := os.ReadFile(out.HTML)
	require.NoError(t, err)
	assert.Contains(t, string(html), "L.circle")
	assert.Contains(t, string(html), "#C80000")
	assert.Contains(t, string(html), "Superhost")
}

func TestMapSnapshotFailureKeepsMap(t *testing.T) {
	r := newTestRenderer(t).WithSnapshotter(fakeSnapshotter{err: errors.New("no chrome")})

	out, err := r.Map(context.Background(), testListings(), MapOptions{Name: "listings"})
	require.NoError(t, err)
	assertFiles(t, out)
	assert.Empty(t, out.Snapshot)
}

func TestNoData(t *testing.T) {
	r := newTestRenderer(t)

	_, err := r.Bar(nil, BarOptions{})
	assert.ErrorIs(t, err, ErrNoData)
	_, err = r.Box(nil, "host_type", "availability_365", BoxOptions{})
	assert.ErrorIs(t, err, ErrNoData)
	_, err = r.Pie(nil, "host_type", PieOptions{})
	assert.ErrorIs(t, err, ErrNoData)
	_, err = r.Map(context.Background(), nil, MapOptions{})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestMedianOf(t *testing.T) {
	assert.Equal(t, 2.0, medianOf([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, medianOf([]float64{4, 1, 2, 3}))
}
