package tiler

import (
	"math"

	"github.com/brendan-ward/geotiler/affine"
	"github.com/brendan-ward/geotiler/tiles"
)

// ZoomRange estimates the zoom levels at which a width x height dataset with
// bounds (in the scheme CRS) is best displayed.  The max zoom is the last
// zoom whose resolution is no finer than the dataset resolution; the min zoom
// is where the whole dataset fits in a single tile.
func ZoomRange(scheme tiles.Scheme, bounds affine.Bounds, width int, height int, tileSize int) (uint8, uint8) {
	pixelSize := math.Max(bounds.Width()/float64(width), bounds.Height()/float64(height))

	maxZoom := zoomForPixelSize(scheme, pixelSize, tileSize)
	minZoom := zoomForPixelSize(scheme, pixelSize*float64(max(width, height))/float64(tileSize), tileSize)

	// datasets smaller than a tile
	if minZoom > maxZoom {
		minZoom = maxZoom
	}

	return minZoom, maxZoom
}

func zoomForPixelSize(scheme tiles.Scheme, pixelSize float64, tileSize int) uint8 {
	last := scheme.MaxZoom()
	for zoom := uint8(0); zoom < last; zoom++ {
		if pixelSize > scheme.Resolution(zoom, tileSize) {
			if zoom > 0 {
				return zoom - 1
			}
			return 0
		}
	}
	if last > 0 {
		return last - 1
	}
	return 0
}
