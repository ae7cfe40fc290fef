package charts

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"superhost-analysis/models"
)

// PieOptions configures a donut chart of listing shares.
type PieOptions struct {
	Name        string
	Title       string
	LegendTitle string
	ShowLegend  bool
	Width       int
	Height      int
}

// Pie draws the share of listings per label of the categorical column names
// as a donut with percent labels and the listing count in the hole.
func (r *Renderer) Pie(listings []*models.Listing, names string, opts PieOptions) (*Output, error) {
	counts := make(map[string]float64)
	var labels []string
	total := 0
	for _, l := range listings {
		g := l.Category(names)
		if g == "" {
			continue
		}
		if _, ok := counts[g]; !ok {
			labels = append(labels, g)
		}
		counts[g]++
		total++
	}
	if total == 0 {
		return nil, ErrNoData
	}
	labels = groupOrder(labels)

	values := make([]float64, len(labels))
	for i, g := range labels {
		values[i] = counts[g]
	}

	w, h := r.style.size(opts.Width, opts.Height)
	p := r.newPlot(opts.Title, "", "")
	p.HideAxes()

	colors := r.colors(labels)
	p.Add(&donut{
		values: values,
		colors: colors,
		hole:   0.5,
		center: fmt.Sprintf("%d Listings", total),
	})

	if opts.ShowLegend {
		p.Legend.Top = true
		if opts.LegendTitle != "" {
			p.Legend.Add(opts.LegendTitle)
		}
		for i, g := range labels {
			p.Legend.Add(g, swatch{color: colors[i]})
		}
	}

	return r.save(p, nameOr(opts.Name, "pie"), opts.Title, w, h)
}

// donut is a plot.Plotter drawing wedges clockwise from twelve o'clock.
type donut struct {
	values []float64
	colors []color.Color
	hole   float64
	center string
}

func (d *donut) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	centre := vg.Point{X: trX(0), Y: trY(0)}
	radius := trX(1) - trX(0)
	if ry := trY(1) - trY(0); ry < radius {
		radius = ry
	}

	total := 0.0
	for _, v := range d.values {
		total += v
	}

	sty := plt.Title.TextStyle
	sty.Font.Size = vg.Points(10)
	sty.Color = color.Black
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YCenter

	start := math.Pi / 2
	labelRadius := radius * vg.Length((1+d.hole)/2)
	for i, v := range d.values {
		sweep := -2 * math.Pi * v / total
		var wedge vg.Path
		wedge.Move(centre)
		wedge.Arc(centre, radius, start, sweep)
		wedge.Close()
		c.SetColor(d.colors[i])
		c.Fill(wedge)

		mid := start + sweep/2
		pt := vg.Point{
			X: centre.X + labelRadius*vg.Length(math.Cos(mid)),
			Y: centre.Y + labelRadius*vg.Length(math.Sin(mid)),
		}
		c.FillText(sty, pt, fmt.Sprintf("%.1f%%", 100*v/total))
		start += sweep
	}

	if d.hole > 0 {
		inner := radius * vg.Length(d.hole)
		var hole vg.Path
		hole.Move(vg.Point{X: centre.X + inner, Y: centre.Y})
		hole.Arc(centre, inner, 0, 2*math.Pi)
		hole.Close()
		c.SetColor(color.White)
		c.Fill(hole)
	}
	if d.center != "" {
		c.FillText(sty, centre, d.center)
	}
}

func (d *donut) DataRange() (xmin, xmax, ymin, ymax float64) {
	return -1.1, 1.1, -1.1, 1.1
}

// swatch is a legend entry filled with a single color.
type swatch struct {
	color color.Color
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.color, c.ClipPolygonY(pts))
}
