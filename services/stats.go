package services

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"superhost-analysis/models"
	"superhost-analysis/utils"
)

// TTestResult is the outcome of a two-sample Student's t-test.
type TTestResult struct {
	T      float64
	DF     float64
	PValue float64
	MeanA  float64
	MeanB  float64
	NA     int
	NB     int
}

// TTestIndependent runs Student's independent two-sample t-test with pooled
// variance and returns the two-sided p-value.
func TTestIndependent(a, b []float64) (TTestResult, error) {
	na, nb := len(a), len(b)
	if na < 2 || nb < 2 {
		return TTestResult{}, fmt.Errorf("ttest: samples of size %d and %d: %w", na, nb, ErrNotEnoughData)
	}

	meanA, varA := stat.MeanVariance(a, nil)
	meanB, varB := stat.MeanVariance(b, nil)
	df := float64(na + nb - 2)
	pooled := ((float64(na)-1)*varA + (float64(nb)-1)*varB) / df
	se := math.Sqrt(pooled * (1/float64(na) + 1/float64(nb)))
	if se == 0 {
		return TTestResult{}, fmt.Errorf("ttest: zero variance in both samples: %w", ErrNotEnoughData)
	}

	t := (meanA - meanB) / se
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.CDF(-math.Abs(t))

	return TTestResult{T: t, DF: df, PValue: p, MeanA: meanA, MeanB: meanB, NA: na, NB: nb}, nil
}

// SignificanceBucket renders a p-value the way the console summary reports it:
// three decimals up to 0.01, two above, trailing zeros trimmed.
func SignificanceBucket(p float64) string {
	switch {
	case math.IsNaN(p):
		return "n/a"
	case p < 0.001:
		return "p < 0.001"
	case p <= 0.01:
		return "p = " + strconv.FormatFloat(math.Round(p*1000)/1000, 'f', -1, 64)
	default:
		return "p = " + strconv.FormatFloat(math.Round(p*100)/100, 'f', -1, 64)
	}
}

// SplitByHostType separates Superhost listings from regular host listings.
// Listings with an unknown superhost flag belong to neither.
func SplitByHostType(listings []*models.Listing) (super, regular []*models.Listing) {
	for _, l := range listings {
		switch {
		case l.IsSuperhost():
			super = append(super, l)
		case l.IsRegularHost():
			regular = append(regular, l)
		}
	}
	return super, regular
}

// CompareHostTypes computes the per-host-type means of metric and tests
// whether they differ.
func CompareHostTypes(listings []*models.Listing, metric string) (models.MetricComparison, error) {
	if !models.HasMetric(metric) {
		return models.MetricComparison{}, fmt.Errorf("compare: %w: %s", ErrMissingColumn, metric)
	}
	super, regular := SplitByHostType(listings)
	a := MetricValues(super, metric)
	b := MetricValues(regular, metric)

	cmp := models.MetricComparison{
		Metric:        metric,
		SuperhostMean: round2(mean(a)),
		HostMean:      round2(mean(b)),
		SuperhostN:    len(a),
		HostN:         len(b),
	}

	res, err := TTestIndependent(a, b)
	if err != nil {
		cmp.PValue = math.NaN()
		cmp.TStatistic = math.NaN()
		cmp.Significance = "n/a"
		return cmp, err
	}
	cmp.TStatistic = res.T
	cmp.PValue = res.PValue
	cmp.Significance = SignificanceBucket(res.PValue)
	return cmp, nil
}

// MetricMeanByHostType logs and returns the rounded mean of metric for
// Superhost and regular host listings. A group without values yields NaN.
func MetricMeanByHostType(listings []*models.Listing, metric string, logger *utils.Logger) (superMean, hostMean float64) {
	super, regular := SplitByHostType(listings)
	superMean = round2(mean(MetricValues(super, metric)))
	hostMean = round2(mean(MetricValues(regular, metric)))
	logger.Info("[stats] Mean %s: Superhost %.2f | Host %.2f", metric, superMean, hostMean)
	return superMean, hostMean
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
