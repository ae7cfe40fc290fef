package storage

import (
	"database/sql"
	"io"
	"time"

	"superhost-analysis/models"
	"superhost-analysis/utils"
)

func quietLogger() *utils.Logger { return utils.NewLoggerWithLevel(io.Discard, "error") }

func sampleListings() []*models.Listing {
	return []*models.Listing{
		{
			ID:                    "2818",
			HostID:                "3159",
			PriceDollar:           59,
			Latitude:              52.36575,
			Longitude:             4.94142,
			HostResponseRate:      sql.NullFloat64{Float64: 1, Valid: true},
			HostIsSuperhost:       sql.NullBool{Bool: true, Valid: true},
			NeighbourhoodCleansed: "Oostelijk Havengebied - Indische Buurt",
			RoomType:              "Private room",
			LastReview:            sql.NullTime{Time: time.Date(2022, 2, 14, 0, 0, 0, 0, time.UTC), Valid: true},
			ReviewScoresRating:    sql.NullFloat64{Float64: 4.89, Valid: true},
			DescriptionLength:     412,
			NumberOfAmenities:     28,
			DistanceToCentreKm:    2.68,
			HostType:              models.HostTypeSuperhost,
			ReviewScoresRatingBin: sql.NullInt64{Int64: 5, Valid: true},
		},
		{
			ID:                 "20168",
			HostID:             "59484",
			PriceDollar:        236,
			Latitude:           52.36509,
			Longitude:          4.89354,
			HostIsSuperhost:    sql.NullBool{Bool: false, Valid: true},
			RoomType:           "Private room",
			DistanceToCentreKm: 0.35,
			HostType:           models.HostTypeHost,
		},
	}
}
