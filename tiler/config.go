package tiler

import (
	"fmt"

	"github.com/brendan-ward/geotiler/crs"
	"github.com/brendan-ward/geotiler/tiles"
)

// Config holds the settings shared by all requests of a Tiler
type Config struct {
	// DisplayCRS is the CRS of tile bounds
	DisplayCRS    string
	// BoundsCRS is the CRS of bounds reported by Bounds and Metadata; the
	// display CRS if empty
	BoundsCRS     string
	Scheme        tiles.Scheme
	DensifyPoints int
}

func DefaultConfig() Config {
	return Config{
		DisplayCRS:    tiles.WebMercator.CRS(),
		Scheme:        tiles.WebMercator,
		DensifyPoints: crs.DefaultDensifyPoints,
	}
}

func (c Config) Validate() error {
	if c.DisplayCRS == "" {
		return fmt.Errorf("%w: display CRS must be set", ErrInvalidParameter)
	}
	if c.Scheme == nil {
		return fmt.Errorf("%w: tile scheme must be set", ErrInvalidParameter)
	}
	if !crs.Equal(c.Scheme.CRS(), c.DisplayCRS) {
		return fmt.Errorf("%w: tile scheme CRS %s does not match display CRS %s", ErrInvalidParameter, c.Scheme.CRS(), c.DisplayCRS)
	}
	if c.DensifyPoints < 0 {
		return fmt.Errorf("%w: densify points must be >= 0", ErrInvalidParameter)
	}
	return nil
}

// boundsCRS returns the CRS of reported bounds
func (c Config) boundsCRS() string {
	if c.BoundsCRS != "" {
		return c.BoundsCRS
	}
	return c.DisplayCRS
}
