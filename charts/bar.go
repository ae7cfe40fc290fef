package charts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"superhost-analysis/models"
)

// BarOptions configures a grouped percent bar chart.
type BarOptions struct {
	Name        string
	Title       string
	XAxisTitle  string
	YAxisTitle  string
	LegendTitle string
	Horizontal  bool
	ShowLegend  bool
	Width       int
	Height      int
}

// Bar draws one bar per (inner category, outer group) pair of a percent table,
// coloured by the outer group.
func (r *Renderer) Bar(rows []models.PercentRow, opts BarOptions) (*Output, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	label := func(row models.PercentRow) string { return strings.Join(row.Inner, " / ") }
	categories := lo.Uniq(lo.Map(rows, func(row models.PercentRow, _ int) string { return label(row) }))
	sort.Strings(categories)
	groups := groupOrder(lo.Uniq(lo.Map(rows, func(row models.PercentRow, _ int) string { return row.Outer })))

	catIndex := make(map[string]int, len(categories))
	for i, c := range categories {
		catIndex[c] = i
	}

	w, h := r.style.size(opts.Width, opts.Height)
	axis := w
	if opts.Horizontal {
		axis = h
	}
	barWidth := axis * 0.7 / vg.Length(len(categories)*(len(groups)+1))

	p := r.newPlot(opts.Title, opts.XAxisTitle, opts.YAxisTitle)
	if opts.ShowLegend {
		p.Legend.Top = true
		if opts.LegendTitle != "" {
			p.Legend.Add(opts.LegendTitle)
		}
	}

	colors := r.colors(groups)
	for gi, g := range groups {
		values := make(plotter.Values, len(categories))
		for _, row := range rows {
			if row.Outer == g {
				values[catIndex[label(row)]] = row.Percent
			}
		}

		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return nil, fmt.Errorf("charts: bar %s: %w", g, err)
		}
		bars.Color = colors[gi]
		bars.LineStyle.Width = vg.Length(0)
		bars.Horizontal = opts.Horizontal
		bars.Offset = vg.Length(float64(gi)-float64(len(groups)-1)/2) * barWidth
		p.Add(bars)
		if opts.ShowLegend {
			p.Legend.Add(g, bars)
		}
	}

	if opts.Horizontal {
		p.NominalY(categories...)
	} else {
		p.NominalX(categories...)
	}

	return r.save(p, nameOr(opts.Name, "bar"), opts.Title, w, h)
}
