package encoding

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RampEncoder colors a single band with a continuous color ramp, blended in
// the CIE L*a*b* color space between evenly spaced stops.
type RampEncoder struct {
	lut [256]color.NRGBA
}

// NewRampEncoder creates a ramp from a comma-delimited list of hex colors,
// e.g., "#440154,#21918c,#fde725"
func NewRampEncoder(stops string) (*RampEncoder, error) {
	parts := strings.Split(strings.ReplaceAll(stops, " ", ""), ",")
	if len(parts) < 2 {
		return nil, fmt.Errorf("color ramp needs at least 2 colors, got %d", len(parts))
	}

	colors := make([]colorful.Color, len(parts))
	for i, part := range parts {
		c, err := colorful.Hex(part)
		if err != nil {
			return nil, fmt.Errorf("invalid hex color %q: %w", part, err)
		}
		colors[i] = c
	}

	e := &RampEncoder{}
	segments := float64(len(colors) - 1)
	for i := 0; i < 256; i++ {
		position := float64(i) / 255 * segments
		segment := int(position)
		if segment >= len(colors)-1 {
			segment = len(colors) - 2
		}
		c := colors[segment].BlendLab(colors[segment+1], position-float64(segment)).Clamped()
		r, g, b := c.RGB255()
		e.lut[i] = color.NRGBA{R: r, G: g, B: b, A: 255}
	}

	return e, nil
}

func (e *RampEncoder) Encode(bands [][]uint8, mask []uint8, width int, height int) ([]byte, error) {
	if err := checkBands(bands, mask, width, height, 1); err != nil {
		return nil, err
	}
	buffer := bands[0]

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			j := row*width + col
			c := e.lut[buffer[j]]
			if mask != nil {
				c.A = mask[j]
			}
			img.SetNRGBA(col, row, c)
		}
	}

	return encodePNG(img)
}
