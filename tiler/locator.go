package tiler

import (
	"fmt"

	"github.com/brendan-ward/geotiler/affine"
	"github.com/brendan-ward/geotiler/tiles"
)

// Locator tests tiles of a scheme against dataset bounds
type Locator struct {
	scheme tiles.Scheme
}

func NewLocator(scheme tiles.Scheme) *Locator {
	return &Locator{scheme: scheme}
}

// TileBounds returns the bounds of tile in the CRS of the scheme
func (l *Locator) TileBounds(tile *tiles.TileID) (affine.Bounds, error) {
	if !l.scheme.Valid(tile) {
		return affine.Bounds{}, fmt.Errorf("%w: %v is not a valid tile index", ErrInvalidParameter, tile)
	}
	return l.scheme.TileBounds(tile), nil
}

// TileExists is true if the interior of tile overlaps bounds, which must be
// in the CRS of the scheme.  Tiles that only touch bounds along an edge do
// not exist.
func (l *Locator) TileExists(bounds affine.Bounds, tile *tiles.TileID) (bool, error) {
	tileBounds, err := l.TileBounds(tile)
	if err != nil {
		return false, err
	}
	return tileBounds.Intersects(bounds), nil
}
