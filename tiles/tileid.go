package tiles

import (
	"fmt"
	"math"
)

// ORIGIN is half the width of the Web Mercator world in meters
const ORIGIN = 6378137.0 * math.Pi

// Tile numbered starting from upper left
type TileID struct {
	Zoom uint8
	X    uint32
	Y    uint32
}

func NewTileID(zoom uint8, x uint32, y uint32) *TileID {
	return &TileID{zoom, x, y}
}

// ParseTileID creates a TileID from signed z, x, y values.  Negative or out
// of range values are reported as an error.
func ParseTileID(z int, x int, y int) (*TileID, error) {
	if z < 0 || z > 31 || x < 0 || y < 0 {
		return nil, fmt.Errorf("tile %d/%d/%d is not a valid tile index", z, x, y)
	}
	tile := NewTileID(uint8(z), uint32(x), uint32(y))
	if !tile.Valid() {
		return nil, fmt.Errorf("tile %d/%d/%d is not a valid tile index", z, x, y)
	}
	return tile, nil
}

// Valid is true if X and Y are within the 2^zoom x 2^zoom tile grid
func (t *TileID) Valid() bool {
	if t.Zoom > 31 {
		return false
	}
	n := uint64(1) << t.Zoom
	return uint64(t.X) < n && uint64(t.Y) < n
}

func (t *TileID) String() string {
	return fmt.Sprintf("Tile(zoom: %v, x: %v, y:%v)", t.Zoom, t.X, t.Y)
}

// Path returns the z/x/y form of the tile
func (t *TileID) Path() string {
	return fmt.Sprintf("%d/%d/%d", t.Zoom, t.X, t.Y)
}
