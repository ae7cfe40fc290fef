package charts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"superhost-analysis/models"
	"superhost-analysis/utils"
)

// ErrNoData is returned when a chart has nothing to draw.
var ErrNoData = errors.New("charts: no data to plot")

// Snapshotter renders an HTML file to a PNG image.
type Snapshotter interface {
	Snapshot(ctx context.Context, htmlPath, pngPath string) error
}

// Output lists the files a chart call wrote.
type Output struct {
	PNG      string
	HTML     string
	Snapshot string
}

// Renderer draws the host comparison charts with a fixed Style.
type Renderer struct {
	style       Style
	logger      *utils.Logger
	snapshotter Snapshotter
}

// NewRenderer creates a Renderer writing into style.OutDir.
func NewRenderer(style Style, logger *utils.Logger) *Renderer {
	return &Renderer{style: style, logger: logger}
}

// WithSnapshotter enables PNG snapshots of the HTML map.
func (r *Renderer) WithSnapshotter(s Snapshotter) *Renderer {
	r.snapshotter = s
	return r
}

// Style returns the style charts are drawn with.
func (r *Renderer) Style() Style { return r.style }

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>body { margin: 0; background: #FFFFFF; font-family: sans-serif; }</style>
</head>
<body>
{{.SVG}}
</body>
</html>
`))

func (r *Renderer) newPlot(title, xTitle, yTitle string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xTitle
	p.Y.Label.Text = yTitle
	p.BackgroundColor = hexOrGray(r.style.Background)
	return p
}

// save writes p as <name>.png and as an HTML page with the plot inlined as SVG.
func (r *Renderer) save(p *plot.Plot, name, title string, w, h vg.Length) (*Output, error) {
	if err := os.MkdirAll(r.style.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("charts: create output dir: %w", err)
	}

	out := &Output{
		PNG:  filepath.Join(r.style.OutDir, name+".png"),
		HTML: filepath.Join(r.style.OutDir, name+".html"),
	}
	if err := p.Save(w, h, out.PNG); err != nil {
		return nil, fmt.Errorf("charts: save %s: %w", out.PNG, err)
	}

	wt, err := p.WriterTo(w, h, "svg")
	if err != nil {
		return nil, fmt.Errorf("charts: svg %s: %w", name, err)
	}
	var svg bytes.Buffer
	if _, err := wt.WriteTo(&svg); err != nil {
		return nil, fmt.Errorf("charts: svg %s: %w", name, err)
	}
	markup := svg.String()
	if i := strings.Index(markup, "<svg"); i > 0 {
		markup = markup[i:]
	}

	if err := writeTemplate(out.HTML, pageTemplate, map[string]any{
		"Title": title,
		"SVG":   template.HTML(markup),
	}); err != nil {
		return nil, err
	}

	r.logger.Debug("[charts] Wrote %s and %s", out.PNG, out.HTML)
	return out, nil
}

func writeTemplate(path string, tmpl *template.Template, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("charts: create %s: %w", path, err)
	}
	if err := tmpl.Execute(f, data); err != nil {
		_ = f.Close()
		return fmt.Errorf("charts: render %s: %w", path, err)
	}
	return f.Close()
}

// groupOrder sorts labels with Superhost first, then Host, then the rest alphabetically.
func groupOrder(labels []string) []string {
	rank := func(s string) int {
		switch s {
		case models.HostTypeSuperhost, "true":
			return 0
		case models.HostTypeHost, "false":
			return 1
		}
		return 2
	}
	out := append([]string(nil), labels...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i]), rank(out[j])
		if ri != rj {
			return ri < rj
		}
		return out[i] < out[j]
	})
	return out
}

func (r *Renderer) colors(labels []string) []color.Color {
	cols := make([]color.Color, len(labels))
	for i, l := range labels {
		cols[i] = r.style.ColorFor(l, i)
	}
	return cols
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
