package crs

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Builtin transforms between geographic (EPSG:4326) and Web Mercator
// (EPSG:3857) coordinates without an external projection library.
type Builtin struct{}

func (Builtin) TransformPoints(src string, dst string, xs []float64, ys []float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("coordinate arrays have different lengths: %d, %d", len(xs), len(ys))
	}

	src = Normalize(src)
	dst = Normalize(dst)
	if src == dst {
		return nil
	}

	var projection orb.Projection
	switch {
	case src == "EPSG:4326" && dst == "EPSG:3857":
		projection = func(p orb.Point) orb.Point {
			if math.Abs(p[1]) > 90 || math.Abs(p[0]) > 180 {
				return orb.Point{math.NaN(), math.NaN()}
			}
			return project.WGS84.ToMercator(p)
		}
	case src == "EPSG:3857" && dst == "EPSG:4326":
		projection = project.Mercator.ToWGS84
	default:
		return fmt.Errorf("%w: %s to %s", ErrUnsupportedCRS, src, dst)
	}

	for i := range xs {
		p := projection(orb.Point{xs[i], ys[i]})
		xs[i] = p[0]
		ys[i] = p[1]
	}

	return nil
}

// Chain tries each Transformer in order, moving on to the next one while
// they report ErrUnsupportedCRS.
type Chain []Transformer

func (c Chain) TransformPoints(src string, dst string, xs []float64, ys []float64) error {
	err := fmt.Errorf("%w: %s to %s", ErrUnsupportedCRS, src, dst)
	for _, t := range c {
		err = t.TransformPoints(src, dst, xs, ys)
		if !errors.Is(err, ErrUnsupportedCRS) {
			return err
		}
	}
	return err
}
