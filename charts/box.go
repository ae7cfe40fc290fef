package charts

import (
	"fmt"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"superhost-analysis/models"
)

// BoxOptions configures a box plot of one metric per group.
type BoxOptions struct {
	Name       string
	Title      string
	XAxisTitle string
	YAxisTitle string
	ShowLegend bool
	Width      int
	Height     int
}

// Box draws the distribution of metric y for every label of the categorical column x.
func (r *Renderer) Box(listings []*models.Listing, x, y string, opts BoxOptions) (*Output, error) {
	values := make(map[string]plotter.Values)
	var labels []string
	for _, l := range listings {
		g := l.Category(x)
		v := l.Metric(y)
		if g == "" || !v.Valid {
			continue
		}
		if _, ok := values[g]; !ok {
			labels = append(labels, g)
		}
		values[g] = append(values[g], v.Float64)
	}
	if len(labels) == 0 {
		return nil, ErrNoData
	}
	labels = groupOrder(labels)

	w, h := r.style.size(opts.Width, opts.Height)
	boxWidth := w * 0.5 / vg.Length(len(labels)+1)

	xTitle, yTitle := opts.XAxisTitle, opts.YAxisTitle
	if xTitle == "" {
		xTitle = x
	}
	if yTitle == "" {
		yTitle = y
	}
	p := r.newPlot(opts.Title, xTitle, yTitle)
	if opts.ShowLegend {
		p.Legend.Top = true
	}

	colors := r.colors(labels)
	for i, g := range labels {
		box, err := plotter.NewBoxPlot(boxWidth, float64(i), values[g])
		if err != nil {
			return nil, fmt.Errorf("charts: box %s/%s: %w", y, g, err)
		}
		box.FillColor = colors[i]
		p.Add(box)
		if opts.ShowLegend {
			p.Legend.Add(g, swatch{color: colors[i]})
		}
	}
	p.NominalX(labels...)

	return r.save(p, nameOr(opts.Name, "box"), opts.Title, w, h)
}
