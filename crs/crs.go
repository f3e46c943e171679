package crs

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/brendan-ward/geotiler/affine"
)

// DefaultDensifyPoints is the number of points added along each edge of a
// bounding box before it is reprojected
const DefaultDensifyPoints = 21

var (
	ErrUndefinedCRS   = errors.New("crs is not defined")
	ErrUnsupportedCRS = errors.New("crs is not supported")
)

// Transformer reprojects coordinates in place from src to dst CRS.  Points
// that cannot be transformed are set to NaN.
type Transformer interface {
	TransformPoints(src string, dst string, xs []float64, ys []float64) error
}

var aliases = map[string]string{
	"EPSG:900913": "EPSG:3857",
	"EPSG:102100": "EPSG:3857",
	"EPSG:102113": "EPSG:3857",
	"EPSG:3785":   "EPSG:3857",
	"WGS84":       "EPSG:4326",
	"CRS:84":      "EPSG:4326",
	"OGC:CRS84":   "EPSG:4326",
}

// Normalize returns the canonical upper case form of a CRS identifier
func Normalize(crs string) string {
	key := strings.ToUpper(strings.TrimSpace(crs))
	if canonical, ok := aliases[key]; ok {
		return canonical
	}
	return key
}

// Equal is true if the two CRS identifiers refer to the same CRS
func Equal(left string, right string) bool {
	return Normalize(left) == Normalize(right)
}

// TransformBounds reprojects bounds from src to dst CRS.  Each edge is
// densified with densifyPts extra points, and the result is the envelope
// of all points that could be transformed.
func TransformBounds(t Transformer, src string, dst string, bounds affine.Bounds, densifyPts int) (affine.Bounds, error) {
	if src == "" || dst == "" {
		return affine.Bounds{}, ErrUndefinedCRS
	}
	if densifyPts < 0 {
		return affine.Bounds{}, fmt.Errorf("densify points must be >= 0, got %d", densifyPts)
	}

	if Equal(src, dst) {
		return bounds, nil
	}

	xs, ys := densify(bounds, densifyPts)
	if err := t.TransformPoints(src, dst, xs, ys); err != nil {
		return affine.Bounds{}, fmt.Errorf("could not transform bounds from %s to %s: %w", src, dst, err)
	}

	out := affine.EmptyBounds()
	for i := range xs {
		if isFinite(xs[i]) && isFinite(ys[i]) {
			out = out.Extend(xs[i], ys[i])
		}
	}

	if !out.Valid() {
		return affine.Bounds{}, fmt.Errorf("could not transform bounds from %s to %s: no valid points", src, dst)
	}

	return out, nil
}

// densify walks the edges of bounds counter-clockwise from the lower left
// corner, adding densifyPts evenly spaced points to each edge.
func densify(bounds affine.Bounds, densifyPts int) ([]float64, []float64) {
	segments := densifyPts + 1
	size := 4 * segments
	xs := make([]float64, 0, size)
	ys := make([]float64, 0, size)

	corners := [5][2]float64{
		{bounds.Xmin, bounds.Ymin},
		{bounds.Xmax, bounds.Ymin},
		{bounds.Xmax, bounds.Ymax},
		{bounds.Xmin, bounds.Ymax},
		{bounds.Xmin, bounds.Ymin},
	}

	for edge := 0; edge < 4; edge++ {
		x0, y0 := corners[edge][0], corners[edge][1]
		x1, y1 := corners[edge+1][0], corners[edge+1][1]
		for i := 0; i < segments; i++ {
			f := float64(i) / float64(segments)
			xs = append(xs, x0+(x1-x0)*f)
			ys = append(ys, y0+(y1-y0)*f)
		}
	}

	return xs, ys
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
