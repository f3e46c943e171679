package cmd

import (
	"fmt"
	"math"

	"github.com/brendan-ward/geotiler/array"
	"github.com/brendan-ward/geotiler/encoding"
	"github.com/brendan-ward/geotiler/raster"
	"github.com/brendan-ward/geotiler/tiler"
)

// renderer converts tile values to 8 bit bands and encodes them to PNG
type renderer struct {
	encoder encoding.PNGEncoder
	// direct casts values to uint8 without stretching (colormaps)
	direct bool
	// rescale applies to every band; takes precedence over ranges
	rescale *[2]float64
	// ranges by 1-based band index
	ranges map[int][2]float64
}

func newRenderer(colormap string, ramp string, bandCount int) (*renderer, error) {
	switch {
	case colormap != "" && ramp != "":
		return nil, fmt.Errorf("colormap and ramp cannot be combined")
	case colormap != "":
		if bandCount != 1 {
			return nil, fmt.Errorf("colormap requires a single band, got %d", bandCount)
		}
		encoder, err := encoding.NewColormapEncoder(colormap)
		if err != nil {
			return nil, err
		}
		return &renderer{encoder: encoder, direct: true}, nil
	case ramp != "":
		if bandCount != 1 {
			return nil, fmt.Errorf("color ramp requires a single band, got %d", bandCount)
		}
		encoder, err := encoding.NewRampEncoder(ramp)
		if err != nil {
			return nil, err
		}
		return &renderer{encoder: encoder}, nil
	}

	switch bandCount {
	case 1:
		return &renderer{encoder: encoding.NewGrayscaleEncoder()}, nil
	case 3:
		return &renderer{encoder: encoding.NewRGBEncoder()}, nil
	default:
		return nil, fmt.Errorf("cannot render %d bands, select 1 or 3 bands with -o indexes=", bandCount)
	}
}

// bandRange returns the value range to stretch band i of result over
func (r *renderer) bandRange(result *tiler.TileResult, i int) (float64, float64) {
	if r.rescale != nil {
		return r.rescale[0], r.rescale[1]
	}
	if rng, ok := r.ranges[result.Bands[i]]; ok {
		return rng[0], rng[1]
	}
	if result.DataType.IsInteger() {
		return result.DataType.Range()
	}

	// floating point data is stretched over the valid values of the tile
	lo, hi := math.Inf(1), math.Inf(-1)
	for j, v := range result.Data[i] {
		if result.Mask[j] == tiler.MaskValid && !math.IsNaN(v) {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if lo > hi {
		return 0, 1
	}
	return lo, hi
}

func (r *renderer) render(result *tiler.TileResult) ([]byte, error) {
	bands := make([][]uint8, len(result.Data))
	for i, values := range result.Data {
		if r.direct {
			cast := make([]float64, len(values))
			for j, v := range values {
				cast[j] = raster.Uint8.Cast(v)
			}
			bands[i] = array.Convert[float64, uint8](cast)
			continue
		}
		lo, hi := r.bandRange(result, i)
		bands[i] = encoding.Rescale(values, lo, hi)
	}

	return r.encoder.Encode(bands, result.Mask, result.Size, result.Size)
}
