package tiler

import (
	"errors"
	"fmt"

	"github.com/brendan-ward/geotiler/tiles"
)

var (
	// ErrDatasetCRS is returned when the dataset has no CRS, or its bounds
	// cannot be reprojected
	ErrDatasetCRS = errors.New("dataset CRS")
	// ErrTileOutsideBounds is matched by TileOutsideBoundsError
	ErrTileOutsideBounds = errors.New("tile is outside bounds of dataset")
	ErrDatasetIO         = errors.New("dataset I/O")
	ErrInvalidParameter  = errors.New("invalid parameter")
	// ErrEmptyWindow is an ErrDatasetIO for a tile that overlaps the dataset
	// bounds but covers none of its pixels
	ErrEmptyWindow = fmt.Errorf("%w: no dataset pixels in window", ErrDatasetIO)
)

// TileOutsideBoundsError reports a tile that does not overlap the dataset
type TileOutsideBoundsError struct {
	Tile tiles.TileID
}

func (e *TileOutsideBoundsError) Error() string {
	return fmt.Sprintf("tile %s is outside bounds of dataset", e.Tile.Path())
}

func (e *TileOutsideBoundsError) Is(target error) bool {
	return target == ErrTileOutsideBounds
}
