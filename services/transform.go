package services

import (
	"database/sql"
	"math"
	"unicode/utf8"

	"github.com/samber/lo"

	"superhost-analysis/models"
)

// Transformer adds the derived columns used by the host comparison.
type Transformer struct {
	centre Point
}

// NewTransformer creates a Transformer measuring distances from centre.
func NewTransformer(centre Point) *Transformer {
	return &Transformer{centre: centre}
}

// AddDerivedColumns returns copies of listings with the length, count,
// distance, host type and rating bin columns filled in.
func (t *Transformer) AddDerivedColumns(listings []*models.Listing) []*models.Listing {
	return lo.Map(listings, func(l *models.Listing, _ int) *models.Listing {
		out := l.Clone()
		out.DescriptionLength = utf8.RuneCountInString(l.Description)
		out.HostAboutLength = utf8.RuneCountInString(l.HostAbout)
		out.NeighborhoodOverviewLength = utf8.RuneCountInString(l.NeighborhoodOverview)
		out.NumberOfAmenities = len(l.Amenities)
		out.NumberOfHostVerifications = len(l.HostVerifications)
		out.DistanceToCentreKm = DistanceToCentreKm(l.Latitude, l.Longitude, t.centre)
		out.HostType = HostTypeLabel(l.HostIsSuperhost)
		out.ReviewScoresRatingBin = RatingBin(l.ReviewScoresRating)
		return out
	})
}

// HostTypeLabel maps the superhost flag to "Superhost" or "Host"; unknown flags map to "".
func HostTypeLabel(superhost sql.NullBool) string {
	if !superhost.Valid {
		return ""
	}
	return lo.Ternary(superhost.Bool, models.HostTypeSuperhost, models.HostTypeHost)
}

// RatingBin rounds a rating to the nearest whole number, halves to even.
func RatingBin(rating sql.NullFloat64) sql.NullInt64 {
	if !rating.Valid || math.IsNaN(rating.Float64) {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(math.RoundToEven(rating.Float64)), Valid: true}
}
