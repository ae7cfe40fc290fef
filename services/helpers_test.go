package services

import (
	"database/sql"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"superhost-analysis/models"
	"superhost-analysis/utils"
)

func quietLogger() *utils.Logger { return utils.NewLoggerWithLevel(io.Discard, "error") }

// table loads records the way the listings reader does: all text, blanks missing.
func table(records [][]string) dataframe.DataFrame {
	return dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{"", "NA", "NaN", "N/A", "<nil>"}),
	)
}

func nf(f float64) sql.NullFloat64 { return sql.NullFloat64{Float64: f, Valid: true} }

func nb(b bool) sql.NullBool { return sql.NullBool{Bool: b, Valid: true} }

func listing(id string, superhost bool) *models.Listing {
	return &models.Listing{
		ID:              id,
		HostIsSuperhost: nb(superhost),
		HostType:        HostTypeLabel(nb(superhost)),
	}
}
