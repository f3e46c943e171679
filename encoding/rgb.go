package encoding

import (
	"image"
)

type RGBEncoder struct{}

func NewRGBEncoder() *RGBEncoder {
	return &RGBEncoder{}
}

// Encode 3 bands (R, G, B) to RGBA PNG.  Alpha is taken from mask, or is
// opaque if mask is nil.
func (e *RGBEncoder) Encode(bands [][]uint8, mask []uint8, width int, height int) ([]byte, error) {
	if err := checkBands(bands, mask, width, height, 3); err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			j := row*width + col
			i := img.PixOffset(col, row)
			img.Pix[i] = bands[0][j]   // R
			img.Pix[i+1] = bands[1][j] // G
			img.Pix[i+2] = bands[2][j] // B
			if mask != nil {
				img.Pix[i+3] = mask[j]
			} else {
				img.Pix[i+3] = 255
			}
		}
	}

	return encodePNG(img)
}
