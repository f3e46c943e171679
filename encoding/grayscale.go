package encoding

import (
	"image"
)

type GrayscaleEncoder struct{}

func NewGrayscaleEncoder() *GrayscaleEncoder {
	return &GrayscaleEncoder{}
}

// Encode a single band to 8-bit grayscale PNG, with alpha if mask is set
func (e *GrayscaleEncoder) Encode(bands [][]uint8, mask []uint8, width int, height int) ([]byte, error) {
	if err := checkBands(bands, mask, width, height, 1); err != nil {
		return nil, err
	}
	buffer := bands[0]

	if mask == nil {
		img := image.NewGray(image.Rect(0, 0, width, height))
		copy(img.Pix, buffer)
		return encodePNG(img)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	var value uint8
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			value = buffer[row*width+col]
			i := img.PixOffset(col, row)
			img.Pix[i] = value
			img.Pix[i+1] = value
			img.Pix[i+2] = value
			img.Pix[i+3] = mask[row*width+col]
		}
	}
	return encodePNG(img)
}
