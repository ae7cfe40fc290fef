package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superhost-analysis/models"
)

func TestAddDerivedColumns(t *testing.T) {
	in := []*models.Listing{
		{
			ID:                 "1",
			Latitude:           AmsterdamCentre.Lat,
			Longitude:          AmsterdamCentre.Lon,
			Description:        "Café près du canal",
			HostAbout:          "Hi",
			Amenities:          []string{"Wifi", "Kitchen", "Heating"},
			HostVerifications:  []string{"email", "phone"},
			HostIsSuperhost:    nb(true),
			ReviewScoresRating: nf(4.6),
		},
		{
			ID:              "2",
			Latitude:        52.3792,
			Longitude:       4.9003,
			HostIsSuperhost: sql.NullBool{},
		},
	}

	out := NewTransformer(AmsterdamCentre).AddDerivedColumns(in)
	require.Len(t, out, 2)

	a := out[0]
	assert.Equal(t, 18, a.DescriptionLength)
	assert.Equal(t, 2, a.HostAboutLength)
	assert.Equal(t, 0, a.NeighborhoodOverviewLength)
	assert.Equal(t, 3, a.NumberOfAmenities)
	assert.Equal(t, 2, a.NumberOfHostVerifications)
	assert.InDelta(t, 0, a.DistanceToCentreKm, 1e-9)
	assert.Equal(t, models.HostTypeSuperhost, a.HostType)
	assert.Equal(t, sql.NullInt64{Int64: 5, Valid: true}, a.ReviewScoresRatingBin)

	b := out[1]
	assert.Equal(t, "", b.HostType)
	assert.False(t, b.ReviewScoresRatingBin.Valid)
	assert.InDelta(t, 1.32, b.DistanceToCentreKm, 0.03)

	// input untouched
	assert.NotSame(t, in[0], a)
	assert.Equal(t, 0, in[0].DescriptionLength)
	assert.Equal(t, "", in[0].HostType)
}

func TestHostTypeLabel(t *testing.T) {
	assert.Equal(t, "Superhost", HostTypeLabel(nb(true)))
	assert.Equal(t, "Host", HostTypeLabel(nb(false)))
	assert.Equal(t, "", HostTypeLabel(sql.NullBool{}))
}

func TestRatingBin(t *testing.T) {
	tests := []struct {
		in   sql.NullFloat64
		want sql.NullInt64
	}{
		{nf(4.89), sql.NullInt64{Int64: 5, Valid: true}},
		{nf(4.4), sql.NullInt64{Int64: 4, Valid: true}},
		{nf(4.5), sql.NullInt64{Int64: 4, Valid: true}},
		{nf(3.5), sql.NullInt64{Int64: 4, Valid: true}},
		{sql.NullFloat64{}, sql.NullInt64{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RatingBin(tt.in), "rating %v", tt.in)
	}
}
