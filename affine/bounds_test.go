package affine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundsIntersects(t *testing.T) {
	base := Bounds{Xmin: 0, Ymin: 0, Xmax: 10, Ymax: 10}

	tests := []struct {
		name     string
		other    Bounds
		expected bool
	}{
		{"overlapping", Bounds{5, 5, 15, 15}, true},
		{"contained", Bounds{2, 2, 3, 3}, true},
		{"containing", Bounds{-5, -5, 15, 15}, true},
		{"touching east edge", Bounds{10, 0, 20, 10}, false},
		{"touching north edge", Bounds{0, 10, 10, 20}, false},
		{"touching corner", Bounds{10, 10, 20, 20}, false},
		{"disjoint", Bounds{20, 20, 30, 30}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, base.Intersects(tc.other))
			// intersection is symmetric
			assert.Equal(t, tc.expected, tc.other.Intersects(base))
		})
	}
}

func TestBoundsIntersection(t *testing.T) {
	a := Bounds{0, 0, 10, 10}

	out, ok := a.Intersection(Bounds{5, -5, 15, 5})
	assert.True(t, ok)
	assert.Equal(t, Bounds{5, 0, 10, 5}, out)

	_, ok = a.Intersection(Bounds{10, 0, 20, 10})
	assert.False(t, ok)
}

func TestBoundsExtendAndValid(t *testing.T) {
	b := EmptyBounds()
	assert.False(t, b.Valid())

	b = b.Extend(1, 2).Extend(-3, 4)
	assert.Equal(t, Bounds{-3, 2, 1, 4}, b)
	assert.True(t, b.Valid())

	assert.False(t, Bounds{0, 0, math.NaN(), 1}.Valid())
	assert.False(t, Bounds{0, 0, 0, 1}.Valid())
}

func TestBoundsNormalize(t *testing.T) {
	assert.Equal(t, Bounds{0, 0, 10, 10}, Bounds{10, 10, 0, 0}.Normalize())
}
