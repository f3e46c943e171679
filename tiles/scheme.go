package tiles

import (
	"math"

	"github.com/brendan-ward/geotiler/affine"
)

// Scheme describes a tile grid: a CRS, the extent covered by the single tile
// at zoom 0, and how that extent is split at higher zooms.
type Scheme interface {
	CRS() string
	Bounds() affine.Bounds
	MaxZoom() uint8
	Valid(tile *TileID) bool
	TileBounds(tile *TileID) affine.Bounds
	TileRange(zoom uint8, bounds affine.Bounds) (*TileID, *TileID)
	Resolution(zoom uint8, tileSize int) float64
}

// QuadTree is a scheme where each tile is split into 2x2 tiles at the next
// zoom level.  Rows are numbered from the top of the extent.
type QuadTree struct {
	crs     string
	extent  affine.Bounds
	maxZoom uint8
}

// WebMercator is the standard EPSG:3857 slippy map tile scheme
var WebMercator = NewQuadTree("EPSG:3857", affine.Bounds{Xmin: -ORIGIN, Ymin: -ORIGIN, Xmax: ORIGIN, Ymax: ORIGIN}, 24)

func NewQuadTree(crs string, extent affine.Bounds, maxZoom uint8) *QuadTree {
	if maxZoom > 31 {
		maxZoom = 31
	}
	return &QuadTree{
		crs:     crs,
		extent:  extent,
		maxZoom: maxZoom,
	}
}

func (q *QuadTree) CRS() string {
	return q.crs
}

func (q *QuadTree) Bounds() affine.Bounds {
	return q.extent
}

func (q *QuadTree) MaxZoom() uint8 {
	return q.maxZoom
}

func (q *QuadTree) Valid(tile *TileID) bool {
	return tile.Zoom <= q.maxZoom && tile.Valid()
}

func (q *QuadTree) tileSize(zoom uint8) (float64, float64) {
	zoomFactor := float64(uint64(1) << zoom)
	return q.extent.Width() / zoomFactor, q.extent.Height() / zoomFactor
}

// TileBounds returns the bounds of tile in the CRS of the scheme
func (q *QuadTree) TileBounds(tile *TileID) affine.Bounds {
	width, height := q.tileSize(tile.Zoom)
	bounds := affine.Bounds{}
	bounds.Xmin = float64(tile.X)*width + q.extent.Xmin
	bounds.Xmax = bounds.Xmin + width
	bounds.Ymax = q.extent.Ymax - float64(tile.Y)*height
	bounds.Ymin = bounds.Ymax - height
	return bounds
}

// TileRange calculates the upper left and lower right tiles at zoom that
// overlap bounds, which must be in the CRS of the scheme.  Tiles that only
// touch the edge of bounds are excluded, and the range is clipped to the grid.
func (q *QuadTree) TileRange(zoom uint8, bounds affine.Bounds) (*TileID, *TileID) {
	width, height := q.tileSize(zoom)
	last := float64(uint64(1)<<zoom) - 1

	clamp := func(v float64) float64 {
		return math.Min(math.Max(v, 0), last)
	}

	xmin := clamp(math.Floor((bounds.Xmin - q.extent.Xmin) / width))
	xmax := clamp(math.Ceil((bounds.Xmax-q.extent.Xmin)/width) - 1)
	ymin := clamp(math.Floor((q.extent.Ymax - bounds.Ymax) / height))
	ymax := clamp(math.Ceil((q.extent.Ymax-bounds.Ymin)/height) - 1)

	xmax = math.Max(xmax, xmin)
	ymax = math.Max(ymax, ymin)

	minTile := &TileID{Zoom: zoom, X: uint32(xmin), Y: uint32(ymin)}
	maxTile := &TileID{Zoom: zoom, X: uint32(xmax), Y: uint32(ymax)}

	return minTile, maxTile
}

// Resolution returns the size of a pixel at zoom for tiles of tileSize pixels
func (q *QuadTree) Resolution(zoom uint8, tileSize int) float64 {
	width, _ := q.tileSize(zoom)
	return width / float64(tileSize)
}

// Count returns the number of tiles between the min and max tiles of a range
func Count(minTile *TileID, maxTile *TileID) int {
	return int(maxTile.X-minTile.X+1) * int(maxTile.Y-minTile.Y+1)
}
