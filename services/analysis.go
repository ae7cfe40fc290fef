package services

import (
	"context"
	"fmt"

	"superhost-analysis/charts"
	"superhost-analysis/models"
	"superhost-analysis/utils"
)

// ChartRenderer draws the charts of the analysis.
type ChartRenderer interface {
	Map(ctx context.Context, listings []*models.Listing, opts charts.MapOptions) (*charts.Output, error)
	Pie(listings []*models.Listing, names string, opts charts.PieOptions) (*charts.Output, error)
	Bar(rows []models.PercentRow, opts charts.BarOptions) (*charts.Output, error)
	Box(listings []*models.Listing, x, y string, opts charts.BoxOptions) (*charts.Output, error)
}

// barChart is one entry of the percent bar chart plan.
type barChart struct {
	metric string
	width  int
	height int
}

var barPlan = []barChart{
	{metric: "host_response_time", width: 600, height: 400},
	{metric: "host_identity_verified"},
	{metric: "neighbourhood_cleansed", width: 600, height: 600},
}

// AnalysisResult collects everything a run produced.
type AnalysisResult struct {
	Report   *models.HostReport
	Tables   []models.PercentTable
	Outputs  []*charts.Output
	Failures map[string]error
}

// Analysis runs the fixed chart plan comparing Superhosts with regular hosts.
type Analysis struct {
	renderer ChartRenderer
	insights *InsightService
	outliers OutlierOptions
	logger   *utils.Logger
}

// NewAnalysis creates an Analysis drawing with renderer.
func NewAnalysis(renderer ChartRenderer, outliers OutlierOptions, logger *utils.Logger) *Analysis {
	return &Analysis{
		renderer: renderer,
		insights: NewInsightService(logger),
		outliers: outliers,
		logger:   logger,
	}
}

// Run draws the map, the host type donut, the percent bar charts and one
// outlier-filtered box plot per metric, then builds the host report. A chart
// that fails is logged and recorded; the remaining charts are still drawn.
func (a *Analysis) Run(ctx context.Context, runID string, listings []*models.Listing) (*AnalysisResult, error) {
	if len(listings) == 0 {
		return nil, fmt.Errorf("analysis: %w", ErrEmptyTable)
	}
	res := &AnalysisResult{Failures: make(map[string]error)}
	record := func(name string, out *charts.Output, err error) {
		if err != nil {
			a.logger.Error("[analysis] Chart %s failed: %v", name, err)
			res.Failures[name] = err
			return
		}
		a.logger.Info("[analysis] Chart %s written to %s", name, out.PNG)
		res.Outputs = append(res.Outputs, out)
	}

	out, err := a.renderer.Map(ctx, listings, charts.MapOptions{Name: "map"})
	record("map", out, err)

	out, err = a.renderer.Pie(listings, "host_type", charts.PieOptions{
		Name:        "host_type",
		Title:       "Percentage of listings by host type",
		LegendTitle: "Is Superhost",
		ShowLegend:  true,
	})
	record("host_type", out, err)

	for _, b := range barPlan {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("analysis: %w", err)
		}
		rows := PercentCountGroupBy(listings, "host_type", b.metric)
		res.Tables = append(res.Tables, models.PercentTable{
			Name:  b.metric,
			Outer: "host_type",
			Inner: []string{b.metric},
			Rows:  rows,
		})
		out, err := a.renderer.Bar(rows, charts.BarOptions{
			Name:       b.metric,
			XAxisTitle: "percent",
			YAxisTitle: b.metric,
			Horizontal: true,
			ShowLegend: true,
			Width:      b.width,
			Height:     b.height,
		})
		record(b.metric, out, err)
	}

	for _, metric := range BoxPlotMetrics {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("analysis: %w", err)
		}
		filtered, err := RemoveOutliers(DropMissing(listings, metric), metric, a.outliers, a.logger)
		if err != nil {
			record(metric, nil, err)
			continue
		}
		out, err := a.renderer.Box(filtered.Kept, "host_type", metric, charts.BoxOptions{Name: metric})
		record(metric, out, err)
		MetricMeanByHostType(listings, metric, a.logger)
	}

	res.Report = a.insights.Generate(runID, listings)
	return res, nil
}

// Print writes the host report to stdout.
func (a *Analysis) Print(r *models.HostReport) {
	a.insights.Print(r)
}
