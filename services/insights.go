package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/samber/lo"

	"superhost-analysis/models"
	"superhost-analysis/utils"
)

// BoxPlotMetrics are the metrics drawn as outlier-filtered box plots per host type.
var BoxPlotMetrics = []string{
	"availability_365",
	"host_acceptance_rate",
	"reviews_per_month",
	"host_response_rate",
	"description_length",
	"host_about_length",
	"neighborhood_overview_length",
	"number_of_amenities",
	"number_of_host_verifications",
	"review_scores_rating",
}

// ComparedMetrics are t-tested between host types: the box plot metrics plus distance to centre.
var ComparedMetrics = append(append([]string(nil), BoxPlotMetrics...), "distance_to_centre_km")

// ReviewScoreMetrics are the review sub-scores summarised per host type.
var ReviewScoreMetrics = []string{
	"review_scores_rating",
	"review_scores_accuracy",
	"review_scores_cleanliness",
	"review_scores_checkin",
	"review_scores_communication",
	"review_scores_location",
	"review_scores_value",
}

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate builds the Superhost vs regular host comparison.
func (s *InsightService) Generate(runID string, listings []*models.Listing) *models.HostReport {
	report := &models.HostReport{
		RunID:         runID,
		GeneratedAt:   time.Now(),
		TotalListings: len(listings),
	}
	if len(listings) == 0 {
		return report
	}

	super, regular := SplitByHostType(listings)
	report.Superhosts = len(super)
	report.RegularHosts = len(regular)
	report.UnknownHostType = len(listings) - len(super) - len(regular)

	superDist := MetricValues(super, "distance_to_centre_km")
	regularDist := MetricValues(regular, "distance_to_centre_km")
	report.MeanDistanceSuperhost = mean(superDist)
	report.MeanDistanceHost = mean(regularDist)
	report.MedianDistanceSuperhost = median(superDist)
	report.MedianDistanceHost = median(regularDist)

	report.MultiListingShareSuper = multiListingShare(super)
	report.MultiListingShareHost = multiListingShare(regular)

	report.Metrics = s.compareAll(listings, ComparedMetrics)
	report.ReviewScores = s.compareAll(listings, ReviewScoreMetrics)
	return report
}

func (s *InsightService) compareAll(listings []*models.Listing, metrics []string) []models.MetricComparison {
	out := make([]models.MetricComparison, 0, len(metrics))
	for _, m := range metrics {
		cmp, err := CompareHostTypes(listings, m)
		if err != nil && !errors.Is(err, ErrNotEnoughData) {
			s.logger.Warn("[insights] Skipping %s: %v", m, err)
			continue
		}
		if err != nil {
			s.logger.Debug("[insights] No significance test for %s: %v", m, err)
		}
		out = append(out, cmp)
	}
	return out
}

// multiListingShare is the fraction of listings whose host has more than one listing.
func multiListingShare(listings []*models.Listing) float64 {
	if len(listings) == 0 {
		return math.NaN()
	}
	multi := lo.CountBy(listings, func(l *models.Listing) bool {
		return l.HostTotalListingsCount.Valid && l.HostTotalListingsCount.Float64 > 1
	})
	return float64(multi) / float64(len(listings))
}

func (s *InsightService) Print(r *models.HostReport) {
	sep := strings.Repeat("═", 64)
	thin := strings.Repeat("─", 64)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 SUPERHOST VS REGULAR HOST\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total listings      : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Printf("  Superhost listings  : \033[1m%d\033[0m\n", r.Superhosts)
	fmt.Printf("  Regular listings    : \033[1m%d\033[0m\n", r.RegularHosts)
	if r.UnknownHostType > 0 {
		fmt.Printf("  Unknown host type   : \033[1m%d\033[0m\n", r.UnknownHostType)
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Distance to centre (km)\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  %-20s %12s %12s\n", "", "Superhost", "Host")
	fmt.Printf("  %-20s %12.2f %12.2f\n", "Average", r.MeanDistanceSuperhost, r.MeanDistanceHost)
	fmt.Printf("  %-20s %12.2f %12.2f\n", "Median", r.MedianDistanceSuperhost, r.MedianDistanceHost)
	fmt.Println()

	fmt.Printf("\033[1;33m  Hosts with more than one listing\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Superhost listings : \033[1;32m%.1f%%\033[0m\n", r.MultiListingShareSuper*100)
	fmt.Printf("  Regular listings   : \033[1;32m%.1f%%\033[0m\n", r.MultiListingShareHost*100)
	fmt.Println()

	printComparisons("Metric averages and independent t-tests", r.Metrics, thin)
	printComparisons("Review scores", r.ReviewScores, thin)

	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)
}

func printComparisons(title string, rows []models.MetricComparison, thin string) {
	fmt.Printf("\033[1;33m  %s\033[0m\n", title)
	fmt.Printf("  %s\n", thin)
	if len(rows) == 0 {
		fmt.Printf("  No metrics available\n\n")
		return
	}
	fmt.Printf("  %-30s %10s %10s  %s\n", "", "Superhost", "Host", "Significance")
	for _, c := range rows {
		fmt.Printf("  %-30s %10.2f %10.2f  \033[1m%s\033[0m\n",
			truncate(c.Metric, 30), c.SuperhostMean, c.HostMean, c.Significance)
	}
	fmt.Println()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
