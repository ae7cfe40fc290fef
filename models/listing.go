package models

import (
	"database/sql"
	"strconv"
	"time"
)

// Host type labels derived from the superhost flag.
const (
	HostTypeSuperhost = "Superhost"
	HostTypeHost      = "Host"
)

// Listing is one cleaned rental unit record plus the columns derived from it.
type Listing struct {
	ID     string
	HostID string

	PriceDollar float64
	Latitude    float64
	Longitude   float64

	HostResponseTime          string
	HostResponseRate          sql.NullFloat64
	HostAcceptanceRate        sql.NullFloat64
	HostIsSuperhost           sql.NullBool
	HostIdentityVerified      sql.NullBool
	HostTotalListingsCount    sql.NullFloat64
	HostVerifications         []string
	NeighbourhoodCleansed     string
	RoomType                  string
	Description               string
	NeighborhoodOverview      string
	HostAbout                 string
	Amenities                 []string
	Availability365           sql.NullFloat64
	NumberOfReviews           sql.NullFloat64
	ReviewsPerMonth           sql.NullFloat64
	LastReview                sql.NullTime
	ReviewScoresRating        sql.NullFloat64
	ReviewScoresAccuracy      sql.NullFloat64
	ReviewScoresCleanliness   sql.NullFloat64
	ReviewScoresCheckin       sql.NullFloat64
	ReviewScoresCommunication sql.NullFloat64
	ReviewScoresLocation      sql.NullFloat64
	ReviewScoresValue         sql.NullFloat64

	// Derived columns.
	DescriptionLength          int
	HostAboutLength            int
	NeighborhoodOverviewLength int
	NumberOfAmenities          int
	NumberOfHostVerifications  int
	DistanceToCentreKm         float64
	HostType                   string
	ReviewScoresRatingBin      sql.NullInt64
}

// IsSuperhost reports whether the host is a known Superhost.
func (l *Listing) IsSuperhost() bool {
	return l.HostIsSuperhost.Valid && l.HostIsSuperhost.Bool
}

// IsRegularHost reports whether the host is known not to be a Superhost.
func (l *Listing) IsRegularHost() bool {
	return l.HostIsSuperhost.Valid && !l.HostIsSuperhost.Bool
}

// Clone returns a copy whose slices do not alias the receiver's.
func (l *Listing) Clone() *Listing {
	c := *l
	c.HostVerifications = append([]string(nil), l.HostVerifications...)
	c.Amenities = append([]string(nil), l.Amenities...)
	return &c
}

func valid(f float64) sql.NullFloat64 { return sql.NullFloat64{Float64: f, Valid: true} }

var metricAccessors = map[string]func(*Listing) sql.NullFloat64{
	"price_dollar":                 func(l *Listing) sql.NullFloat64 { return valid(l.PriceDollar) },
	"latitude":                     func(l *Listing) sql.NullFloat64 { return valid(l.Latitude) },
	"longitude":                    func(l *Listing) sql.NullFloat64 { return valid(l.Longitude) },
	"host_response_rate":           func(l *Listing) sql.NullFloat64 { return l.HostResponseRate },
	"host_acceptance_rate":         func(l *Listing) sql.NullFloat64 { return l.HostAcceptanceRate },
	"host_total_listings_count":    func(l *Listing) sql.NullFloat64 { return l.HostTotalListingsCount },
	"availability_365":             func(l *Listing) sql.NullFloat64 { return l.Availability365 },
	"number_of_reviews":            func(l *Listing) sql.NullFloat64 { return l.NumberOfReviews },
	"reviews_per_month":            func(l *Listing) sql.NullFloat64 { return l.ReviewsPerMonth },
	"review_scores_rating":         func(l *Listing) sql.NullFloat64 { return l.ReviewScoresRating },
	"review_scores_accuracy":       func(l *Listing) sql.NullFloat64 { return l.ReviewScoresAccuracy },
	"review_scores_cleanliness":    func(l *Listing) sql.NullFloat64 { return l.ReviewScoresCleanliness },
	"review_scores_checkin":        func(l *Listing) sql.NullFloat64 { return l.ReviewScoresCheckin },
	"review_scores_communication":  func(l *Listing) sql.NullFloat64 { return l.ReviewScoresCommunication },
	"review_scores_location":       func(l *Listing) sql.NullFloat64 { return l.ReviewScoresLocation },
	"review_scores_value":          func(l *Listing) sql.NullFloat64 { return l.ReviewScoresValue },
	"description_length":           func(l *Listing) sql.NullFloat64 { return valid(float64(l.DescriptionLength)) },
	"host_about_length":            func(l *Listing) sql.NullFloat64 { return valid(float64(l.HostAboutLength)) },
	"neighborhood_overview_length": func(l *Listing) sql.NullFloat64 { return valid(float64(l.NeighborhoodOverviewLength)) },
	"number_of_amenities":          func(l *Listing) sql.NullFloat64 { return valid(float64(l.NumberOfAmenities)) },
	"number_of_host_verifications": func(l *Listing) sql.NullFloat64 { return valid(float64(l.NumberOfHostVerifications)) },
	"distance_to_centre_km":        func(l *Listing) sql.NullFloat64 { return valid(l.DistanceToCentreKm) },
}

// Metric returns the value of the named numeric column. Unknown names and
// missing values both report Valid == false.
func (l *Listing) Metric(name string) sql.NullFloat64 {
	fn, ok := metricAccessors[name]
	if !ok {
		return sql.NullFloat64{}
	}
	return fn(l)
}

// HasMetric reports whether name is a known numeric column.
func HasMetric(name string) bool {
	_, ok := metricAccessors[name]
	return ok
}

// Category returns the label of the named categorical column, or "" when the
// value is missing or the column is unknown.
func (l *Listing) Category(name string) string {
	switch name {
	case "id":
		return l.ID
	case "host_id":
		return l.HostID
	case "host_type":
		return l.HostType
	case "host_is_superhost":
		return boolLabel(l.HostIsSuperhost)
	case "host_identity_verified":
		return boolLabel(l.HostIdentityVerified)
	case "host_response_time":
		return l.HostResponseTime
	case "neighbourhood_cleansed":
		return l.NeighbourhoodCleansed
	case "room_type":
		return l.RoomType
	case "review_scores_rating_bin":
		if !l.ReviewScoresRatingBin.Valid {
			return ""
		}
		return strconv.FormatInt(l.ReviewScoresRatingBin.Int64, 10)
	}
	return ""
}

func boolLabel(b sql.NullBool) string {
	if !b.Valid {
		return ""
	}
	if b.Bool {
		return "true"
	}
	return "false"
}

// CleanReport describes what the cleaning stage removed.
type CleanReport struct {
	DroppedByKeyword  map[string][]string
	DroppedMissing    []string
	DroppedIrrelevant []string
	RowsIn            int
	RowsOut           int
	NonPositivePrice  int
	ExcessivePrice    int
}

// PercentRow is one group of a percent-count aggregation.
type PercentRow struct {
	Outer   string
	Inner   []string
	Count   int
	Percent float64
}

// PercentTable is a named percent-count aggregation, one per bar chart.
type PercentTable struct {
	Name  string
	Outer string
	Inner []string
	Rows  []PercentRow
}

// MetricComparison holds the host-type means and t-test result for one metric.
type MetricComparison struct {
	Metric        string
	SuperhostMean float64
	HostMean      float64
	SuperhostN    int
	HostN         int
	TStatistic    float64
	PValue        float64
	Significance  string
}

// HostReport is the superhost vs regular host comparison printed at the end of a run.
type HostReport struct {
	RunID                   string
	GeneratedAt             time.Time
	TotalListings           int
	Superhosts              int
	RegularHosts            int
	UnknownHostType         int
	MeanDistanceSuperhost   float64
	MeanDistanceHost        float64
	MedianDistanceSuperhost float64
	MedianDistanceHost      float64
	MultiListingShareSuper  float64
	MultiListingShareHost   float64
	Metrics                 []MetricComparison
	ReviewScores            []MetricComparison
}
