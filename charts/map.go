package charts

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"superhost-analysis/models"
)

// MapOptions configures the listings map.
type MapOptions struct {
	Name   string
	Title  string
	Zoom   int
	Radius float64
}

type mapCircle struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Color string  `json:"color"`
	Label string  `json:"label"`
}

var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map("map").setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});
L.tileLayer("https://tile.openstreetmap.org/{z}/{x}/{y}.png", {
  maxZoom: 19,
  attribution: "&copy; OpenStreetMap contributors"
}).addTo(map);
{{.Circles}}.forEach(function (c) {
  L.circle([c.lat, c.lon], {
    radius: {{.Radius}}, stroke: true, color: c.color, weight: 1, opacity: 0.2, fill: true
  }).bindTooltip(c.label).addTo(map);
});
</script>
</body>
</html>
`))

// Map writes an interactive HTML map of the listings coloured by the superhost
// flag, centred on the median coordinate, plus a static PNG scatter of the same
// points. With a Snapshotter configured it also captures the HTML map as PNG.
func (r *Renderer) Map(ctx context.Context, listings []*models.Listing, opts MapOptions) (*Output, error) {
	if len(listings) == 0 {
		return nil, ErrNoData
	}
	name := nameOr(opts.Name, "map")
	zoom := opts.Zoom
	if zoom == 0 {
		zoom = 12
	}
	radius := opts.Radius
	if radius == 0 {
		radius = 60
	}

	lats := make([]float64, len(listings))
	lons := make([]float64, len(listings))
	circles := make([]mapCircle, len(listings))
	byLabel := make(map[string]plotter.XYs)
	for i, l := range listings {
		lats[i], lons[i] = l.Latitude, l.Longitude
		label := l.Category("host_is_superhost")
		circles[i] = mapCircle{Lat: l.Latitude, Lon: l.Longitude, Color: r.style.HexFor(label, 0), Label: legendLabel(label)}
		byLabel[label] = append(byLabel[label], plotter.XY{X: l.Longitude, Y: l.Latitude})
	}

	if err := os.MkdirAll(r.style.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("charts: create output dir: %w", err)
	}
	htmlPath := filepath.Join(r.style.OutDir, name+".html")
	if err := writeTemplate(htmlPath, mapTemplate, map[string]any{
		"Title":     opts.Title,
		"CenterLat": medianOf(lats),
		"CenterLon": medianOf(lons),
		"Zoom":      zoom,
		"Radius":    radius,
		"Circles":   circles,
	}); err != nil {
		return nil, err
	}

	w, h := r.style.size(0, 0)
	p := r.newPlot(opts.Title, "longitude", "latitude")
	p.Legend.Top = true

	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	// draw regular hosts first so Superhosts stay visible on top
	labels = groupOrder(labels)
	for i := len(labels) - 1; i >= 0; i-- {
		label := labels[i]
		sc, err := plotter.NewScatter(byLabel[label])
		if err != nil {
			return nil, fmt.Errorf("charts: map scatter: %w", err)
		}
		sc.GlyphStyle.Color = r.style.ColorFor(label, i)
		sc.GlyphStyle.Radius = vg.Points(1.5)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add(legendLabel(label), sc)
	}

	pngPath := filepath.Join(r.style.OutDir, name+".png")
	if err := p.Save(w, h, pngPath); err != nil {
		return nil, fmt.Errorf("charts: save %s: %w", pngPath, err)
	}

	out := &Output{PNG: pngPath, HTML: htmlPath}
	if r.snapshotter != nil {
		snap := filepath.Join(r.style.OutDir, name+"_snapshot.png")
		if err := r.snapshotter.Snapshot(ctx, htmlPath, snap); err != nil {
			r.logger.Warn("[charts] Map snapshot failed: %v", err)
		} else {
			out.Snapshot = snap
		}
	}
	return out, nil
}

func legendLabel(label string) string {
	switch label {
	case "true":
		return models.HostTypeSuperhost
	case "false":
		return models.HostTypeHost
	case "":
		return "Unknown"
	}
	return label
}

func medianOf(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
