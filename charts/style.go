package charts

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gonum.org/v1/plot/vg"

	"superhost-analysis/models"
)

// Style carries everything that used to be module-level chart defaults.
type Style struct {
	OutDir         string
	Width          int
	Height         int
	SuperhostColor string
	HostColor      string
	Background     string
	Palette        []string
}

// DefaultStyle returns the 600x400 layout with the red/blue host colors.
func DefaultStyle(outDir string) Style {
	return Style{
		OutDir:         outDir,
		Width:          600,
		Height:         400,
		SuperhostColor: "#C80000",
		HostColor:      "#577590",
		Background:     "#FFFFFF",
		Palette: []string{
			"#66C2A5", "#FC8D62", "#8DA0CB", "#E78AC3", "#A6D854", "#FFD92F", "#E5C494", "#B3B3B3",
			"#B3E2CD", "#FDCDAC", "#CBD5E8", "#F4CAE4", "#E6F5C9", "#FFF2AE", "#F1E2CC", "#CCCCCC",
			"#1B9E77", "#D95F02", "#7570B3", "#E7298A", "#66A61E", "#E6AB02", "#A6761D", "#666666",
		},
	}
}

// ColorFor maps host labels and superhost booleans to the host colors. Any
// other label is given a palette color by its position.
func (s Style) ColorFor(label string, index int) color.Color {
	switch label {
	case "true", models.HostTypeSuperhost:
		return hexOrGray(s.SuperhostColor)
	case "false", models.HostTypeHost:
		return hexOrGray(s.HostColor)
	}
	if len(s.Palette) == 0 {
		return color.Gray{Y: 128}
	}
	return hexOrGray(s.Palette[index%len(s.Palette)])
}

// HexFor is ColorFor as a CSS hex string.
func (s Style) HexFor(label string, index int) string {
	r, g, b, _ := s.ColorFor(label, index).RGBA()
	return fmt.Sprintf("#%02X%02X%02X", r>>8, g>>8, b>>8)
}

func (s Style) size(width, height int) (vg.Length, vg.Length) {
	if width <= 0 {
		width = s.Width
	}
	if height <= 0 {
		height = s.Height
	}
	return px(width), px(height)
}

// px converts screen pixels to plot lengths at the 96 DPI the PNG canvas uses.
func px(n int) vg.Length {
	return vg.Length(n) * vg.Inch / 96
}

// ParseHex parses "#RRGGBB" or "RRGGBB".
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("charts: invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("charts: invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}

func hexOrGray(s string) color.Color {
	c, err := ParseHex(s)
	if err != nil {
		return color.Gray{Y: 128}
	}
	return c
}
