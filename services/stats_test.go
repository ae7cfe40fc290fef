package services

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superhost-analysis/models"
	"superhost-analysis/utils"
)

func TestTTestIndependent(t *testing.T) {
	res, err := TTestIndependent([]float64{1, 2, 3, 4, 5}, []float64{2, 3, 4, 5, 6})
	require.NoError(t, err)

	assert.InDelta(t, -1.0, res.T, 1e-12)
	assert.Equal(t, 8.0, res.DF)
	assert.InDelta(t, 0.3466, res.PValue, 1e-4)
	assert.Equal(t, 3.0, res.MeanA)
	assert.Equal(t, 4.0, res.MeanB)
}

func TestTTestIndependentClearDifference(t *testing.T) {
	a := []float64{9.8, 10.1, 10.0, 9.9, 10.2, 10.0}
	b := []float64{12.1, 11.9, 12.0, 12.2, 11.8, 12.0}

	res, err := TTestIndependent(a, b)
	require.NoError(t, err)
	assert.Less(t, res.PValue, 0.001)
	assert.Equal(t, "p < 0.001", SignificanceBucket(res.PValue))
}

func TestTTestIndependentNotEnoughData(t *testing.T) {
	_, err := TTestIndependent([]float64{1}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrNotEnoughData)

	_, err = TTestIndependent([]float64{3, 3}, []float64{3, 3, 3})
	assert.ErrorIs(t, err, ErrNotEnoughData)
}

func TestSignificanceBucket(t *testing.T) {
	tests := []struct {
		p    float64
		want string
	}{
		{0.0004, "p < 0.001"},
		{0.001, "p = 0.001"},
		{0.0042, "p = 0.004"},
		{0.01, "p = 0.01"},
		{0.0123, "p = 0.01"},
		{0.3466, "p = 0.35"},
		{0.5, "p = 0.5"},
		{math.NaN(), "n/a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SignificanceBucket(tt.p), "p=%v", tt.p)
	}
}

func scoredListings() []*models.Listing {
	var out []*models.Listing
	for i, v := range []float64{4.9, 4.8, 5.0, 4.7} {
		l := listing(string(rune('a'+i)), true)
		l.ReviewScoresRating = nf(v)
		out = append(out, l)
	}
	for i, v := range []float64{4.1, 4.5, 4.3} {
		l := listing(string(rune('p'+i)), false)
		l.ReviewScoresRating = nf(v)
		out = append(out, l)
	}
	// unknown host type is ignored
	out = append(out, &models.Listing{ID: "z", ReviewScoresRating: nf(1)})
	return out
}

func TestSplitByHostType(t *testing.T) {
	super, regular := SplitByHostType(scoredListings())
	assert.Len(t, super, 4)
	assert.Len(t, regular, 3)
}

func TestCompareHostTypes(t *testing.T) {
	cmp, err := CompareHostTypes(scoredListings(), "review_scores_rating")
	require.NoError(t, err)

	assert.Equal(t, "review_scores_rating", cmp.Metric)
	assert.Equal(t, 4.85, cmp.SuperhostMean)
	assert.Equal(t, 4.3, cmp.HostMean)
	assert.Equal(t, 4, cmp.SuperhostN)
	assert.Equal(t, 3, cmp.HostN)
	assert.Greater(t, cmp.TStatistic, 0.0)
	assert.Less(t, cmp.PValue, 0.05)
	assert.NotEqual(t, "n/a", cmp.Significance)
}

func TestCompareHostTypesWithoutData(t *testing.T) {
	cmp, err := CompareHostTypes(scoredListings(), "reviews_per_month")
	assert.ErrorIs(t, err, ErrNotEnoughData)
	assert.Equal(t, "n/a", cmp.Significance)
	assert.True(t, math.IsNaN(cmp.PValue))

	_, err = CompareHostTypes(scoredListings(), "bogus")
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestMetricMeanByHostType(t *testing.T) {
	var buf bytes.Buffer
	logger := utils.NewLoggerWithLevel(&buf, "info")

	super, host := MetricMeanByHostType(scoredListings(), "review_scores_rating", logger)
	assert.Equal(t, 4.85, super)
	assert.Equal(t, 4.3, host)
	assert.Contains(t, buf.String(), "Superhost 4.85 | Host 4.30")
}
