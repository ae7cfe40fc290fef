package charts

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#C80000")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xC8, A: 0xFF}, c)

	c, err = ParseHex("577590")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x57, G: 0x75, B: 0x90, A: 0xFF}, c)

	_, err = ParseHex("#FFF")
	assert.Error(t, err)
	_, err = ParseHex("#GGGGGG")
	assert.Error(t, err)
}

func TestColorFor(t *testing.T) {
	s := DefaultStyle(t.TempDir())

	assert.Equal(t, "#C80000", s.HexFor("Superhost", 3))
	assert.Equal(t, "#C80000", s.HexFor("true", 0))
	assert.Equal(t, "#577590", s.HexFor("Host", 0))
	assert.Equal(t, "#577590", s.HexFor("false", 7))
	assert.Equal(t, "#66C2A5", s.HexFor("Private room", 0))
	assert.Equal(t, "#FC8D62", s.HexFor("Hotel room", 1+len(s.Palette)))

	s.Palette = nil
	assert.Equal(t, color.Gray{Y: 128}, s.ColorFor("Private room", 0))
}

func TestGroupOrder(t *testing.T) {
	assert.Equal(t,
		[]string{"Superhost", "Host", "Entire home/apt", "Private room"},
		groupOrder([]string{"Private room", "Host", "Entire home/apt", "Superhost"}))
	assert.Equal(t, []string{"true", "false"}, groupOrder([]string{"false", "true"}))
}
