package services

import (
	"fmt"
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"superhost-analysis/models"
	"superhost-analysis/utils"
)

// OutlierOptions sets the band width and the share of removed rows that triggers a warning.
type OutlierOptions struct {
	SDThreshold  float64
	WarnFraction float64
}

// DefaultOutlierOptions keeps rows within two standard deviations and warns above 5% removed.
func DefaultOutlierOptions() OutlierOptions {
	return OutlierOptions{SDThreshold: 2, WarnFraction: 0.05}
}

// OutlierResult is the filtered copy plus the band it was filtered with.
type OutlierResult struct {
	Kept    []*models.Listing
	Removed int
	Mean    float64
	StdDev  float64
	Lower   float64
	Upper   float64
	Warned  bool
}

// RemovedFraction is the share of input rows that fell outside the band.
func (r *OutlierResult) RemovedFraction() float64 {
	total := len(r.Kept) + r.Removed
	if total == 0 {
		return 0
	}
	return float64(r.Removed) / float64(total)
}

// RemoveOutliers keeps the listings whose metric lies within
// mean ± SDThreshold·sd. Listings with a missing metric fall outside the band.
// The input slice is not modified.
func RemoveOutliers(listings []*models.Listing, metric string, opts OutlierOptions, logger *utils.Logger) (*OutlierResult, error) {
	if !models.HasMetric(metric) {
		return nil, fmt.Errorf("outliers: %w: %s", ErrMissingColumn, metric)
	}
	if len(listings) == 0 {
		return nil, fmt.Errorf("outliers: %s: %w", metric, ErrEmptyTable)
	}

	values := MetricValues(listings, metric)
	if len(values) < 2 {
		return nil, fmt.Errorf("outliers: %s has %d values: %w", metric, len(values), ErrNotEnoughData)
	}

	mean, variance := stat.MeanVariance(values, nil)
	sd := math.Sqrt(variance)
	res := &OutlierResult{
		Mean:   mean,
		StdDev: sd,
		Lower:  mean - sd*opts.SDThreshold,
		Upper:  mean + sd*opts.SDThreshold,
	}

	res.Kept = lo.Filter(listings, func(l *models.Listing, _ int) bool {
		v := l.Metric(metric)
		return v.Valid && v.Float64 >= res.Lower && v.Float64 <= res.Upper
	})
	res.Removed = len(listings) - len(res.Kept)

	if res.RemovedFraction() > opts.WarnFraction {
		res.Warned = true
		logger.Warn("[outliers] More than %.1f%% of values removed for %s (%d)!",
			opts.WarnFraction*100, metric, res.Removed)
	}
	return res, nil
}

// DropMissing returns the listings whose metric is present.
func DropMissing(listings []*models.Listing, metric string) []*models.Listing {
	return lo.Filter(listings, func(l *models.Listing, _ int) bool {
		return l.Metric(metric).Valid
	})
}

// MetricValues collects the present values of metric.
func MetricValues(listings []*models.Listing, metric string) []float64 {
	values := make([]float64, 0, len(listings))
	for _, l := range listings {
		if v := l.Metric(metric); v.Valid {
			values = append(values, v.Float64)
		}
	}
	return values
}
