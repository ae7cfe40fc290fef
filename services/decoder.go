package services

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	jsoniter "github.com/json-iterator/go"

	"superhost-analysis/models"
	"superhost-analysis/utils"
)

var requiredColumns = []string{"id", colPriceDollar, "latitude", "longitude"}

type column struct {
	records []string
	na      []bool
}

func (c *column) asText(i int) string {
	if c == nil || c.na[i] {
		return ""
	}
	return c.records[i]
}

func (c *column) asFloat(i int) sql.NullFloat64 {
	if c == nil || c.na[i] {
		return sql.NullFloat64{}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(c.records[i]), 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func (c *column) asBool(i int) sql.NullBool {
	if c == nil || c.na[i] {
		return sql.NullBool{}
	}
	switch strings.ToLower(c.records[i]) {
	case "true", "t":
		return sql.NullBool{Bool: true, Valid: true}
	case "false", "f":
		return sql.NullBool{Bool: false, Valid: true}
	}
	return sql.NullBool{}
}

func (c *column) asDate(i int) sql.NullTime {
	if c == nil || c.na[i] {
		return sql.NullTime{}
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(c.records[i]))
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func (c *column) asList(i int) []string {
	if c == nil || c.na[i] {
		return nil
	}
	return ParseListLiteral(c.records[i])
}

// Decoder converts the cleaned table into typed listing records.
type Decoder struct {
	logger *utils.Logger
}

// NewDecoder creates a Decoder with the given logger.
func NewDecoder(logger *utils.Logger) *Decoder {
	return &Decoder{logger: logger}
}

// Decode builds one Listing per row. Rows without coordinates are skipped.
func (d *Decoder) Decode(df dataframe.DataFrame) ([]*models.Listing, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("decoder: input table: %w", df.Err)
	}
	for _, name := range requiredColumns {
		if !hasColumn(df, name) {
			return nil, fmt.Errorf("decoder: %w: %s", ErrMissingColumn, name)
		}
	}

	cols := make(map[string]*column, df.Ncol())
	for _, name := range df.Names() {
		s := df.Col(name)
		cols[name] = &column{records: s.Records(), na: s.IsNaN()}
	}
	get := func(name string) *column { return cols[name] }

	listings := make([]*models.Listing, 0, df.Nrow())
	skipped := 0
	for i := 0; i < df.Nrow(); i++ {
		price := get(colPriceDollar).asFloat(i)
		lat := get("latitude").asFloat(i)
		lon := get("longitude").asFloat(i)
		if !price.Valid || !lat.Valid || !lon.Valid {
			skipped++
			continue
		}

		listings = append(listings, &models.Listing{
			ID:                        get("id").asText(i),
			HostID:                    get("host_id").asText(i),
			PriceDollar:               price.Float64,
			Latitude:                  lat.Float64,
			Longitude:                 lon.Float64,
			HostResponseTime:          get("host_response_time").asText(i),
			HostResponseRate:          get("host_response_rate").asFloat(i),
			HostAcceptanceRate:        get("host_acceptance_rate").asFloat(i),
			HostIsSuperhost:           get("host_is_superhost").asBool(i),
			HostIdentityVerified:      get("host_identity_verified").asBool(i),
			HostTotalListingsCount:    get("host_total_listings_count").asFloat(i),
			HostVerifications:         get("host_verifications").asList(i),
			NeighbourhoodCleansed:     get("neighbourhood_cleansed").asText(i),
			RoomType:                  get("room_type").asText(i),
			Description:               get("description").asText(i),
			NeighborhoodOverview:      get("neighborhood_overview").asText(i),
			HostAbout:                 get("host_about").asText(i),
			Amenities:                 get("amenities").asList(i),
			Availability365:           get("availability_365").asFloat(i),
			NumberOfReviews:           get("number_of_reviews").asFloat(i),
			ReviewsPerMonth:           get("reviews_per_month").asFloat(i),
			LastReview:                get("last_review").asDate(i),
			ReviewScoresRating:        get("review_scores_rating").asFloat(i),
			ReviewScoresAccuracy:      get("review_scores_accuracy").asFloat(i),
			ReviewScoresCleanliness:   get("review_scores_cleanliness").asFloat(i),
			ReviewScoresCheckin:       get("review_scores_checkin").asFloat(i),
			ReviewScoresCommunication: get("review_scores_communication").asFloat(i),
			ReviewScoresLocation:      get("review_scores_location").asFloat(i),
			ReviewScoresValue:         get("review_scores_value").asFloat(i),
		})
	}

	if skipped > 0 {
		d.logger.Warn("[decoder] Skipped %d rows without price or coordinates", skipped)
	}
	d.logger.Info("[decoder] Decoded %d listings", len(listings))
	return listings, nil
}

// ParseListLiteral parses JSON arrays ("[\"Wifi\", \"Kitchen\"]") and Python
// list literals ("['email', 'phone']") into their string items.
func ParseListLiteral(raw string) []string {
	s := strings.TrimSpace(raw)
	if s == "" || s == "[]" || s == "None" {
		return nil
	}

	var items []string
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(s, &items); err == nil {
		return items
	}

	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil
	}
	return scanQuotedItems(s[1 : len(s)-1])
}

// scanQuotedItems collects every single- or double-quoted string in s,
// honouring backslash escapes.
func scanQuotedItems(s string) []string {
	var (
		items   []string
		current strings.Builder
		quote   rune
		escaped bool
	)
	for _, r := range s {
		switch {
		case quote == 0:
			if r == '\'' || r == '"' {
				quote = r
				current.Reset()
			}
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == quote:
			items = append(items, current.String())
			quote = 0
		default:
			current.WriteRune(r)
		}
	}
	return items
}
