package encoding

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

type Colormap struct {
	values  map[uint8]uint8 // map of value to index in palette
	palette color.Palette
}

// Returns palette index of value
// any values not in original colormap are set to transparent
func (c *Colormap) GetIndex(value uint8) uint8 {
	if index, ok := c.values[value]; ok {
		return index
	}
	return c.transparent()
}

func (c *Colormap) transparent() uint8 {
	return uint8(len(c.palette) - 1)
}

func (c *Colormap) Palette() color.Palette {
	return c.palette
}

// Create new colormap by parsing colormap string, which is a comma-delimited
// set of <value>:<hex> entries, e.g., "1:#AABBCC,2:#DDEEFF"
func NewColormap(colormap string) (*Colormap, error) {
	entries := strings.Split(strings.ReplaceAll(colormap, " ", ""), ",")
	if len(entries) > 255 {
		return nil, fmt.Errorf("colormap has %d entries, at most 255 are supported", len(entries))
	}

	palette := make([]color.Color, len(entries)+1)
	values := make(map[uint8]uint8, len(entries))
	for i, entry := range entries {
		parts := strings.Split(entry, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid colormap entry %q, expected <value>:<hex>", entry)
		}
		value, err := strconv.ParseUint(parts[0], 10, 8)
		if err != nil {
			return nil, err
		}
		values[uint8(value)] = uint8(i)

		color, err := parseHex(parts[1])
		if err != nil {
			return nil, err
		}

		palette[i] = color
	}
	palette[len(entries)] = color.Transparent

	return &Colormap{
		values:  values,
		palette: palette,
	}, nil
}

func parseHex(hex string) (color.NRGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

type ColormapEncoder struct {
	colormap *Colormap
}

func NewColormapEncoder(colormapStr string) (*ColormapEncoder, error) {
	colormap, err := NewColormap(colormapStr)
	if err != nil {
		return nil, err
	}

	return &ColormapEncoder{
		colormap: colormap,
	}, nil
}

// Encode a single band to a paletted PNG; masked pixels are transparent
func (e *ColormapEncoder) Encode(bands [][]uint8, mask []uint8, width int, height int) ([]byte, error) {
	if err := checkBands(bands, mask, width, height, 1); err != nil {
		return nil, err
	}
	buffer := bands[0]

	img := image.NewPaletted(image.Rect(0, 0, width, height), e.colormap.Palette())

	var value uint8
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if mask != nil && mask[row*width+col] == 0 {
				img.SetColorIndex(col, row, e.colormap.transparent())
				continue
			}
			value = buffer[row*width+col]
			img.SetColorIndex(col, row, e.colormap.GetIndex(value))
		}
	}

	return encodePNG(img)
}
