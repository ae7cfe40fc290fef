package storage

import (
	"database/sql"
	"strconv"
	"time"

	"superhost-analysis/models"
)

type columnKind int

const (
	kindText columnKind = iota
	kindReal
	kindInt
	kindBool
	kindDate
)

// column maps one exported field of a cleaned listing.
type column struct {
	name  string
	kind  columnKind
	value func(l *models.Listing) any
}

var listingColumns = []column{
	{"id", kindText, func(l *models.Listing) any { return l.ID }},
	{"host_id", kindText, func(l *models.Listing) any { return l.HostID }},
	{"price_dollar", kindReal, func(l *models.Listing) any { return l.PriceDollar }},
	{"latitude", kindReal, func(l *models.Listing) any { return l.Latitude }},
	{"longitude", kindReal, func(l *models.Listing) any { return l.Longitude }},
	{"host_response_time", kindText, func(l *models.Listing) any { return text(l.HostResponseTime) }},
	{"host_response_rate", kindReal, func(l *models.Listing) any { return float(l.HostResponseRate) }},
	{"host_acceptance_rate", kindReal, func(l *models.Listing) any { return float(l.HostAcceptanceRate) }},
	{"host_is_superhost", kindBool, func(l *models.Listing) any { return boolean(l.HostIsSuperhost) }},
	{"host_identity_verified", kindBool, func(l *models.Listing) any { return boolean(l.HostIdentityVerified) }},
	{"host_total_listings_count", kindReal, func(l *models.Listing) any { return float(l.HostTotalListingsCount) }},
	{"neighbourhood_cleansed", kindText, func(l *models.Listing) any { return text(l.NeighbourhoodCleansed) }},
	{"room_type", kindText, func(l *models.Listing) any { return text(l.RoomType) }},
	{"availability_365", kindReal, func(l *models.Listing) any { return float(l.Availability365) }},
	{"number_of_reviews", kindReal, func(l *models.Listing) any { return float(l.NumberOfReviews) }},
	{"reviews_per_month", kindReal, func(l *models.Listing) any { return float(l.ReviewsPerMonth) }},
	{"last_review", kindDate, func(l *models.Listing) any { return date(l.LastReview) }},
	{"review_scores_rating", kindReal, func(l *models.Listing) any { return float(l.ReviewScoresRating) }},
	{"review_scores_accuracy", kindReal, func(l *models.Listing) any { return float(l.ReviewScoresAccuracy) }},
	{"review_scores_cleanliness", kindReal, func(l *models.Listing) any { return float(l.ReviewScoresCleanliness) }},
	{"review_scores_checkin", kindReal, func(l *models.Listing) any { return float(l.ReviewScoresCheckin) }},
	{"review_scores_communication", kindReal, func(l *models.Listing) any { return float(l.ReviewScoresCommunication) }},
	{"review_scores_location", kindReal, func(l *models.Listing) any { return float(l.ReviewScoresLocation) }},
	{"review_scores_value", kindReal, func(l *models.Listing) any { return float(l.ReviewScoresValue) }},
	{"description_length", kindInt, func(l *models.Listing) any { return l.DescriptionLength }},
	{"host_about_length", kindInt, func(l *models.Listing) any { return l.HostAboutLength }},
	{"neighborhood_overview_length", kindInt, func(l *models.Listing) any { return l.NeighborhoodOverviewLength }},
	{"number_of_amenities", kindInt, func(l *models.Listing) any { return l.NumberOfAmenities }},
	{"number_of_host_verifications", kindInt, func(l *models.Listing) any { return l.NumberOfHostVerifications }},
	{"distance_to_centre_km", kindReal, func(l *models.Listing) any { return l.DistanceToCentreKm }},
	{"host_type", kindText, func(l *models.Listing) any { return text(l.HostType) }},
	{"review_scores_rating_bin", kindInt, func(l *models.Listing) any { return integer(l.ReviewScoresRatingBin) }},
}

func columnNames() []string {
	names := make([]string, len(listingColumns))
	for i, c := range listingColumns {
		names[i] = c.name
	}
	return names
}

func rowValues(l *models.Listing) []any {
	vals := make([]any, len(listingColumns))
	for i, c := range listingColumns {
		vals[i] = c.value(l)
	}
	return vals
}

// postgresType and sqliteType give the column type per dialect.
func (c column) postgresType() string {
	switch c.kind {
	case kindReal:
		return "DOUBLE PRECISION"
	case kindInt:
		return "INTEGER"
	case kindBool:
		return "BOOLEAN"
	case kindDate:
		return "DATE"
	}
	return "TEXT"
}

func (c column) sqliteType() string {
	switch c.kind {
	case kindReal:
		return "REAL"
	case kindInt, kindBool:
		return "INTEGER"
	}
	return "TEXT"
}

func text(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func float(v sql.NullFloat64) any {
	if !v.Valid {
		return nil
	}
	return v.Float64
}

func boolean(v sql.NullBool) any {
	if !v.Valid {
		return nil
	}
	return v.Bool
}

func integer(v sql.NullInt64) any {
	if !v.Valid {
		return nil
	}
	return v.Int64
}

func date(v sql.NullTime) any {
	if !v.Valid {
		return nil
	}
	return v.Time
}

// formatValue renders a column value for text outputs; missing values are empty.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format("2006-01-02")
	}
	return ""
}

// sqliteValue stores booleans as 0/1 and dates as ISO text.
func sqliteValue(v any) any {
	switch t := v.(type) {
	case bool:
		if t {
			return 1
		}
		return 0
	case time.Time:
		return t.Format("2006-01-02")
	}
	return v
}
