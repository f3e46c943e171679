package affine

import (
	"fmt"
	"math"
)

// Bounds is a bounding box: west (Xmin), south (Ymin), east (Xmax), north (Ymax)
type Bounds struct {
	Xmin float64
	Ymin float64
	Xmax float64
	Ymax float64
}

// NewBounds creates Bounds from [xmin, ymin, xmax, ymax]
func NewBounds(b [4]float64) Bounds {
	return Bounds{Xmin: b[0], Ymin: b[1], Xmax: b[2], Ymax: b[3]}
}

// EmptyBounds returns inverted infinite bounds, ready to be grown with Extend
func EmptyBounds() Bounds {
	return Bounds{
		Xmin: math.Inf(1),
		Ymin: math.Inf(1),
		Xmax: math.Inf(-1),
		Ymax: math.Inf(-1),
	}
}

// Array returns [xmin, ymin, xmax, ymax]
func (b Bounds) Array() [4]float64 {
	return [4]float64{b.Xmin, b.Ymin, b.Xmax, b.Ymax}
}

func (b Bounds) Width() float64 {
	return b.Xmax - b.Xmin
}

func (b Bounds) Height() float64 {
	return b.Ymax - b.Ymin
}

// Valid is true if all values are finite and the box has positive area
func (b Bounds) Valid() bool {
	for _, v := range b.Array() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.Xmin < b.Xmax && b.Ymin < b.Ymax
}

// Normalize swaps inverted axes so that Xmin <= Xmax and Ymin <= Ymax
func (b Bounds) Normalize() Bounds {
	if b.Xmin > b.Xmax {
		b.Xmin, b.Xmax = b.Xmax, b.Xmin
	}
	if b.Ymin > b.Ymax {
		b.Ymin, b.Ymax = b.Ymax, b.Ymin
	}
	return b
}

// Extend grows the bounds to include x, y
func (b Bounds) Extend(x float64, y float64) Bounds {
	b.Xmin = math.Min(b.Xmin, x)
	b.Ymin = math.Min(b.Ymin, y)
	b.Xmax = math.Max(b.Xmax, x)
	b.Ymax = math.Max(b.Ymax, y)
	return b
}

// Intersects is true when the interiors of the two boxes overlap.
// Boxes that only share an edge or a corner do not intersect.
func (b Bounds) Intersects(other Bounds) bool {
	return b.Xmin < other.Xmax &&
		b.Xmax > other.Xmin &&
		b.Ymin < other.Ymax &&
		b.Ymax > other.Ymin
}

// Intersection returns the overlap of the two boxes; false if they do not intersect
func (b Bounds) Intersection(other Bounds) (Bounds, bool) {
	if !b.Intersects(other) {
		return Bounds{}, false
	}
	return Bounds{
		Xmin: math.Max(b.Xmin, other.Xmin),
		Ymin: math.Max(b.Ymin, other.Ymin),
		Xmax: math.Min(b.Xmax, other.Xmax),
		Ymax: math.Min(b.Ymax, other.Ymax),
	}, true
}

// Contains is true if other lies entirely within b
func (b Bounds) Contains(other Bounds) bool {
	return other.Xmin >= b.Xmin && other.Xmax <= b.Xmax && other.Ymin >= b.Ymin && other.Ymax <= b.Ymax
}

func (b Bounds) String() string {
	return fmt.Sprintf("Bounds(xmin: %v, ymin: %v, xmax: %v, ymax: %v)", b.Xmin, b.Ymin, b.Xmax, b.Ymax)
}
