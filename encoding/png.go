package encoding

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
)

// PNGEncoder encodes uint8 bands to PNG
type PNGEncoder interface {
	// Encode width x height row-major bands to PNG.  mask, if not nil, is
	// used as the alpha channel: 0 is transparent, 255 is opaque.
	Encode(bands [][]uint8, mask []uint8, width int, height int) ([]byte, error)
}

// Encode the Image to PNG bytes
func encodePNG(img image.Image) ([]byte, error) {
	var buffer bytes.Buffer
	err := png.Encode(&buffer, img)
	if err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

func checkBands(bands [][]uint8, mask []uint8, width int, height int, count int) error {
	if len(bands) != count {
		return fmt.Errorf("expected %d bands, got %d", count, len(bands))
	}
	size := width * height
	for i, band := range bands {
		if len(band) != size {
			return fmt.Errorf("band %d has %d values, expected %d", i+1, len(band), size)
		}
	}
	if mask != nil && len(mask) != size {
		return fmt.Errorf("mask has %d values, expected %d", len(mask), size)
	}
	return nil
}

// Rescale linearly stretches values from min..max to 0..255.  Values outside
// of the range are clamped; NaN becomes 0.
func Rescale(values []float64, min float64, max float64) []uint8 {
	out := make([]uint8, len(values))
	span := max - min
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		var scaled float64
		if span == 0 {
			if v >= max {
				scaled = 255
			}
		} else {
			scaled = (v - min) / span * 255
		}
		out[i] = uint8(math.Round(math.Min(math.Max(scaled, 0), 255)))
	}
	return out
}
