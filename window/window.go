package window

import (
	"fmt"
	"math"

	"github.com/brendan-ward/geotiler/affine"
)

// Window is a fractional pixel window into a raster grid.  Offsets are in
// columns / rows from the upper left corner of the grid.
type Window struct {
	XOffset float64
	YOffset float64
	Width   float64
	Height  float64
}

// FromBounds calculates the Window covered by bounds for a raster with the
// given transform.
func FromBounds(transform *affine.Affine, bounds affine.Bounds) *Window {
	invTransform := transform.Invert()

	// calculate outer bounds
	extent := affine.EmptyBounds()
	corners := [4][2]float64{
		{bounds.Xmin, bounds.Ymin},
		{bounds.Xmin, bounds.Ymax},
		{bounds.Xmax, bounds.Ymin},
		{bounds.Xmax, bounds.Ymax},
	}
	for _, corner := range corners {
		x, y := invTransform.Multiply(corner[0], corner[1])
		extent = extent.Extend(x, y)
	}

	return &Window{
		XOffset: extent.Xmin,
		YOffset: extent.Ymin,
		Width:   extent.Width(),
		Height:  extent.Height(),
	}
}

// Finite is true if the window has finite offsets and a positive size
func (w *Window) Finite() bool {
	for _, v := range [4]float64{w.XOffset, w.YOffset, w.Width, w.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return w.Width > 0 && w.Height > 0
}

// Intersection clips the window to other; false if they do not overlap.
func (w *Window) Intersection(other *Window) (*Window, bool) {
	xmin := math.Max(w.XOffset, other.XOffset)
	ymin := math.Max(w.YOffset, other.YOffset)
	xmax := math.Min(w.XOffset+w.Width, other.XOffset+other.Width)
	ymax := math.Min(w.YOffset+w.Height, other.YOffset+other.Height)

	if xmin >= xmax || ymin >= ymax {
		return nil, false
	}

	return &Window{
		XOffset: xmin,
		YOffset: ymin,
		Width:   xmax - xmin,
		Height:  ymax - ymin,
	}, true
}

// Full returns the window covering an entire width x height grid
func Full(width int, height int) *Window {
	return &Window{
		Width:  float64(width),
		Height: float64(height),
	}
}

func (w *Window) String() string {
	return fmt.Sprintf("Window(xoff: %v, yoff: %v, width: %v, height: %v)", w.XOffset, w.YOffset, w.Width, w.Height)
}
