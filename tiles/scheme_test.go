package tiles

import (
	"testing"

	"github.com/brendan-ward/geotiler/affine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTileValid(t *testing.T) {
	assert.True(t, NewTileID(0, 0, 0).Valid())
	assert.False(t, NewTileID(0, 1, 0).Valid())
	assert.True(t, NewTileID(3, 7, 7).Valid())
	assert.False(t, NewTileID(3, 7, 8).Valid())

	assert.False(t, WebMercator.Valid(NewTileID(25, 0, 0)))

	_, err := ParseTileID(1, -1, 0)
	assert.Error(t, err)
	_, err = ParseTileID(1, 2, 0)
	assert.Error(t, err)
	tile, err := ParseTileID(1, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, TileID{1, 1, 0}, *tile)
}

func TestQuadTreeTileBounds(t *testing.T) {
	scheme := NewQuadTree("LOCAL", affine.Bounds{Xmin: 0, Ymin: 0, Xmax: 40, Ymax: 40}, 4)

	assert.Equal(t, affine.Bounds{Xmin: 20, Ymin: 20, Xmax: 30, Ymax: 30}, scheme.TileBounds(NewTileID(2, 2, 1)))
	assert.Equal(t, affine.Bounds{Xmin: 0, Ymin: 0, Xmax: 10, Ymax: 10}, scheme.TileBounds(NewTileID(2, 0, 3)))
	assert.Equal(t, 2.5, scheme.Resolution(2, 4))
}

func TestQuadTreeTileRange(t *testing.T) {
	scheme := NewQuadTree("LOCAL", affine.Bounds{Xmin: 0, Ymin: 0, Xmax: 40, Ymax: 40}, 4)

	tests := []struct {
		name   string
		bounds affine.Bounds
		min    TileID
		max    TileID
	}{
		{"whole extent", affine.Bounds{Xmin: 0, Ymin: 0, Xmax: 40, Ymax: 40}, TileID{2, 0, 0}, TileID{2, 3, 3}},
		{"aligned to tile edges", affine.Bounds{Xmin: 10, Ymin: 10, Xmax: 30, Ymax: 30}, TileID{2, 1, 1}, TileID{2, 2, 2}},
		{"inside a single tile", affine.Bounds{Xmin: 11, Ymin: 11, Xmax: 12, Ymax: 12}, TileID{2, 1, 2}, TileID{2, 1, 2}},
		{"larger than extent", affine.Bounds{Xmin: -100, Ymin: -100, Xmax: 100, Ymax: 100}, TileID{2, 0, 0}, TileID{2, 3, 3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			minTile, maxTile := scheme.TileRange(2, tc.bounds)
			assert.Equal(t, tc.min, *minTile)
			assert.Equal(t, tc.max, *maxTile)
		})
	}

	minTile, maxTile := scheme.TileRange(2, affine.Bounds{Xmin: 0, Ymin: 0, Xmax: 40, Ymax: 40})
	assert.Equal(t, 16, Count(minTile, maxTile))
}

func TestWebMercatorTileRange(t *testing.T) {
	for zoom := uint8(0); zoom <= 6; zoom++ {
		minTile, maxTile := WebMercator.TileRange(zoom, WebMercator.Bounds())
		n := uint32(1) << zoom
		assert.Equal(t, TileID{zoom, 0, 0}, *minTile)
		assert.Equal(t, TileID{zoom, n - 1, n - 1}, *maxTile)
	}
}
