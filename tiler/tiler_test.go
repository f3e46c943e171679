package tiler

import (
	"errors"
	"math"
	"testing"

	"github.com/brendan-ward/geotiler/affine"
	"github.com/brendan-ward/geotiler/crs"
	"github.com/brendan-ward/geotiler/memraster"
	"github.com/brendan-ward/geotiler/raster"
	"github.com/brendan-ward/geotiler/tiles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRead = errors.New("read failed")

// failingDataset fails every read
type failingDataset struct {
	*memraster.Dataset
	reads int
}

func (d *failingDataset) Read(req raster.ReadRequest) ([][]float64, error) {
	d.reads++
	return nil, errRead
}

// scaleTransformer scales coordinates by 1.2 about (5, 5) when transforming
// from "SOURCE", and by the inverse otherwise
type scaleTransformer struct{}

func (scaleTransformer) TransformPoints(src, dst string, xs, ys []float64) error {
	factor := 1.2
	if src != "SOURCE" {
		factor = 1 / factor
	}
	for i := range xs {
		xs[i] = (xs[i]-5)*factor + 5
		ys[i] = (ys[i]-5)*factor + 5
	}
	return nil
}

var localScheme = tiles.NewQuadTree("LOCAL", affine.Bounds{Xmin: 0, Ymin: 0, Xmax: 40, Ymax: 40}, 8)

func localConfig() Config {
	return Config{
		DisplayCRS:    "LOCAL",
		Scheme:        localScheme,
		DensifyPoints: crs.DefaultDensifyPoints,
	}
}

func constant(size int, value float64) []float64 {
	values := make([]float64, size)
	for i := range values {
		values[i] = value
	}
	return values
}

func newDataset(t *testing.T, width, height int, crsName string, bounds affine.Bounds, bands ...[]float64) *memraster.Dataset {
	t.Helper()
	ds, err := memraster.New(width, height, crsName, affine.FromBounds(bounds, width, height), bands...)
	require.NoError(t, err)
	return ds
}

func openerFor(ds raster.Dataset) raster.Opener {
	return raster.OpenerFunc(func(address string) (raster.Dataset, error) {
		return ds, nil
	})
}

// freshOpener builds a new dataset for every Open, since each Tiler call
// closes the dataset it opened
func freshOpener(build func() (*memraster.Dataset, error)) raster.Opener {
	return raster.OpenerFunc(func(address string) (raster.Dataset, error) {
		return build()
	})
}

func newTiler(t *testing.T, cfg Config, opener raster.Opener, transformer crs.Transformer) *Tiler {
	t.Helper()
	tiler, err := New(cfg, opener, transformer)
	require.NoError(t, err)
	return tiler
}

func tileOptions(size int) TileOptions {
	opts := DefaultTileOptions()
	opts.TileSize = size
	return opts
}

func TestTileWholeGlobe(t *testing.T) {
	world := tiles.WebMercator.Bounds()
	values := constant(512*512, 1)
	opener := raster.OpenerFunc(func(address string) (raster.Dataset, error) {
		return memraster.New(512, 512, "EPSG:3857", affine.FromBounds(world, 512, 512), values)
	})
	tiler := newTiler(t, DefaultConfig(), opener, crs.Builtin{})

	for z := 0; z <= 6; z++ {
		n := 1 << z
		for x := 0; x < n; x++ {
			for y := 0; y < n; y++ {
				result, err := tiler.Tile("world", z, x, y, tileOptions(16))
				require.NoError(t, err, "tile %d/%d/%d", z, x, y)
				require.True(t, result.AllValid(), "tile %d/%d/%d is not fully valid", z, x, y)
			}
		}
	}
}

func TestTileWholeGlobeGeographic(t *testing.T) {
	world := affine.Bounds{Xmin: -180, Ymin: -90, Xmax: 180, Ymax: 90}
	values := constant(360*180, 1)
	opener := raster.OpenerFunc(func(address string) (raster.Dataset, error) {
		return memraster.New(360, 180, "EPSG:4326", affine.FromBounds(world, 360, 180), values)
	})
	tiler := newTiler(t, DefaultConfig(), opener, crs.Builtin{})

	for z := 0; z <= 3; z++ {
		n := 1 << z
		for x := 0; x < n; x++ {
			for y := 0; y < n; y++ {
				result, err := tiler.Tile("world", z, x, y, tileOptions(16))
				require.NoError(t, err, "tile %d/%d/%d", z, x, y)
				assert.True(t, result.AllValid(), "tile %d/%d/%d is not fully valid", z, x, y)
				assert.Equal(t, "EPSG:3857", result.CRS)
			}
		}
	}
}

func TestTilePartiallyOutside(t *testing.T) {
	// western half of the world
	western := affine.Bounds{Xmin: -tiles.ORIGIN, Ymin: -tiles.ORIGIN, Xmax: 0, Ymax: tiles.ORIGIN}
	ds := newDataset(t, 128, 256, "EPSG:3857", western, constant(128*256, 5))
	ds.SetNodata(1, -1)
	tiler := newTiler(t, DefaultConfig(), openerFor(ds), crs.Builtin{})

	result, err := tiler.Tile("west", 0, 0, 0, tileOptions(256))
	require.NoError(t, err)
	assert.False(t, result.AllValid())
	assert.False(t, result.NoneValid())

	for _, row := range []int{0, 128, 255} {
		assert.True(t, result.Valid(row, 0))
		assert.True(t, result.Valid(row, 127))
		assert.False(t, result.Valid(row, 128))
		assert.False(t, result.Valid(row, 255))

		assert.Equal(t, 5.0, result.Data[0][row*256+127])
		assert.Equal(t, -1.0, result.Data[0][row*256+128], "pixels outside dataset are filled with nodata")
	}
}

func TestReadTileNodata(t *testing.T) {
	bounds := affine.Bounds{Xmin: 0, Ymin: 0, Xmax: 4, Ymax: 4}

	t.Run("dataset nodata", func(t *testing.T) {
		values := constant(16, 1)
		values[5] = -9999
		ds := newDataset(t, 4, 4, "LOCAL", bounds, values)
		ds.SetNodata(1, -9999)

		result, err := ReadTile(ds, crs.Builtin{}, bounds, tileOptions(4))
		require.NoError(t, err)
		for i, m := range result.Mask {
			if i == 5 {
				assert.Equal(t, MaskInvalid, m)
			} else {
				assert.Equal(t, MaskValid, m, "pixel %d", i)
			}
		}
	})

	t.Run("NaN nodata", func(t *testing.T) {
		values := constant(16, 1)
		values[3] = math.NaN()
		ds := newDataset(t, 4, 4, "LOCAL", bounds, values)
		ds.SetNodata(1, math.NaN())

		result, err := ReadTile(ds, crs.Builtin{}, bounds, tileOptions(4))
		require.NoError(t, err)
		assert.False(t, result.Valid(0, 3))
		assert.True(t, result.Valid(0, 2))
	})

	t.Run("without nodata", func(t *testing.T) {
		values := constant(16, 1)
		values[3] = math.NaN()
		values[4] = -9999
		ds := newDataset(t, 4, 4, "LOCAL", bounds, values)

		result, err := ReadTile(ds, crs.Builtin{}, bounds, tileOptions(4))
		require.NoError(t, err)
		assert.True(t, result.AllValid())
	})

	t.Run("nodata override", func(t *testing.T) {
		values := constant(16, 1)
		values[0] = 0
		ds := newDataset(t, 4, 4, "LOCAL", bounds, values)
		ds.SetNodata(1, 1)

		opts := tileOptions(4)
		nodata := 0.0
		opts.Nodata = &nodata
		result, err := ReadTile(ds, crs.Builtin{}, bounds, opts)
		require.NoError(t, err)
		assert.False(t, result.Valid(0, 0))
		assert.True(t, result.Valid(0, 1))
	})

	t.Run("conservative across bands", func(t *testing.T) {
		band1 := constant(16, 1)
		band1[0] = -1
		band2 := constant(16, 2)
		band2[1] = -2
		ds := newDataset(t, 4, 4, "LOCAL", bounds, band1, band2)
		ds.SetNodata(1, -1)
		ds.SetNodata(2, -2)

		result, err := ReadTile(ds, crs.Builtin{}, bounds, tileOptions(4))
		require.NoError(t, err)
		require.Len(t, result.Data, 2)
		assert.False(t, result.Valid(0, 0))
		assert.False(t, result.Valid(0, 1))
		assert.True(t, result.Valid(0, 2))

		opts := tileOptions(4)
		opts.Indexes = []int{2}
		result, err = ReadTile(ds, crs.Builtin{}, bounds, opts)
		require.NoError(t, err)
		require.Len(t, result.Data, 1)
		assert.True(t, result.Valid(0, 0))
		assert.False(t, result.Valid(0, 1))
	})
}

func TestReadTileDataType(t *testing.T) {
	bounds := affine.Bounds{Xmin: 0, Ymin: 0, Xmax: 2, Ymax: 2}
	ds := newDataset(t, 2, 2, "LOCAL", bounds, []float64{-3, 1.6, 300, 12})

	opts := tileOptions(2)
	opts.DataType = raster.Uint8
	result, err := ReadTile(ds, crs.Builtin{}, bounds, opts)
	require.NoError(t, err)
	assert.Equal(t, raster.Uint8, result.DataType)
	assert.Equal(t, []float64{0, 2, 255, 12}, result.Data[0])
}

func TestReadTileFullyOutside(t *testing.T) {
	bounds := affine.Bounds{Xmin: 0, Ymin: 0, Xmax: 4, Ymax: 4}
	ds := &failingDataset{Dataset: newDataset(t, 4, 4, "LOCAL", bounds, constant(16, 1))}
	ds.SetNodata(1, 7)

	result, err := ReadTile(ds, crs.Builtin{}, affine.Bounds{Xmin: 10, Ymin: 10, Xmax: 14, Ymax: 14}, tileOptions(4))
	require.NoError(t, err)
	assert.True(t, result.NoneValid())
	assert.Equal(t, constant(16, 7), result.Data[0])
	assert.Equal(t, 0, ds.reads, "dataset should not be read")

	// a sliver narrower than one output pixel is not read either
	result, err = ReadTile(ds, crs.Builtin{}, affine.Bounds{Xmin: 3.99, Ymin: 0, Xmax: 7.99, Ymax: 4}, tileOptions(4))
	require.NoError(t, err)
	assert.True(t, result.NoneValid())
	assert.Equal(t, 0, ds.reads)
}

func TestTileEmptyWindow(t *testing.T) {
	// dataset is far smaller than one output pixel of tile 0/0/0
	bounds := affine.Bounds{Xmin: 0, Ymin: 0, Xmax: 0.01, Ymax: 0.01}
	ds := &failingDataset{Dataset: newDataset(t, 1, 1, "LOCAL", bounds, []float64{1})}
	tiler := newTiler(t, localConfig(), openerFor(ds), crs.Builtin{})

	display, err := tiler.Bounds("tiny")
	require.NoError(t, err)
	exists, err := tiler.Locator().TileExists(affine.NewBounds(display.Bounds), tiles.NewTileID(0, 0, 0))
	require.NoError(t, err)
	assert.True(t, exists)

	ds = &failingDataset{Dataset: newDataset(t, 1, 1, "LOCAL", bounds, []float64{1})}
	tiler = newTiler(t, localConfig(), openerFor(ds), crs.Builtin{})

	_, err = tiler.Tile("tiny", 0, 0, 0, tileOptions(16))
	assert.ErrorIs(t, err, ErrEmptyWindow)
	assert.ErrorIs(t, err, ErrDatasetIO)
	assert.NotErrorIs(t, err, ErrTileOutsideBounds)
	assert.Equal(t, 0, ds.reads, "dataset should not be read")
	assert.True(t, ds.Closed())

	// a direct read of the same tile is all-invalid
	ds = &failingDataset{Dataset: newDataset(t, 1, 1, "LOCAL", bounds, []float64{1})}
	result, err := ReadTile(ds, crs.Builtin{}, localScheme.TileBounds(tiles.NewTileID(0, 0, 0)), tileOptions(16))
	require.NoError(t, err)
	assert.True(t, result.NoneValid())
}

func TestReadTileResampledNodata(t *testing.T) {
	// columns alternate between 10 and no-data
	values := make([]float64, 16)
	for i := range values {
		if i%2 == 0 {
			values[i] = 10
		} else {
			values[i] = -9999
		}
	}
	bounds := affine.Bounds{Xmin: 0, Ymin: 0, Xmax: 4, Ymax: 4}

	for _, resampling := range []raster.Resampling{raster.Bilinear, raster.Average} {
		t.Run(resampling.String(), func(t *testing.T) {
			ds := newDataset(t, 4, 4, "LOCAL", bounds, values)
			ds.SetNodata(1, -9999)

			opts := tileOptions(2)
			opts.Resampling = resampling
			result, err := ReadTile(ds, crs.Builtin{}, bounds, opts)
			require.NoError(t, err)

			assert.Equal(t, constant(4, 10), result.Data[0])
			assert.True(t, result.AllValid())
		})
	}

	// all no-data under the footprint stays masked
	ds := newDataset(t, 4, 4, "LOCAL", bounds, constant(16, -9999))
	ds.SetNodata(1, -9999)
	opts := tileOptions(2)
	opts.Resampling = raster.Bilinear
	result, err := ReadTile(ds, crs.Builtin{}, bounds, opts)
	require.NoError(t, err)
	assert.True(t, result.NoneValid())
}

func TestReadTileErrors(t *testing.T) {
	bounds := affine.Bounds{Xmin: 0, Ymin: 0, Xmax: 4, Ymax: 4}

	ds := &failingDataset{Dataset: newDataset(t, 4, 4, "LOCAL", bounds, constant(16, 1))}
	_, err := ReadTile(ds, crs.Builtin{}, bounds, tileOptions(4))
	assert.ErrorIs(t, err, ErrDatasetIO)
	assert.ErrorContains(t, err, errRead.Error())

	noCRS := newDataset(t, 4, 4, "", bounds, constant(16, 1))
	_, err = ReadTile(noCRS, crs.Builtin{}, bounds, tileOptions(4))
	assert.ErrorIs(t, err, ErrDatasetCRS)

	rotated, err := memraster.New(4, 4, "LOCAL", &affine.Affine{A: 1, B: 0.5, C: 0, D: 0, E: -1, F: 4}, constant(16, 1))
	require.NoError(t, err)
	_, err = ReadTile(rotated, crs.Builtin{}, bounds, tileOptions(4))
	assert.ErrorIs(t, err, ErrDatasetIO)

	southUp, err := memraster.New(4, 4, "LOCAL", &affine.Affine{A: 1, B: 0, C: 0, D: 0, E: 1, F: 0}, constant(16, 1))
	require.NoError(t, err)
	_, err = ReadTile(southUp, crs.Builtin{}, bounds, tileOptions(4))
	assert.ErrorIs(t, err, ErrDatasetIO)

	valid := newDataset(t, 4, 4, "LOCAL", bounds, constant(16, 1))
	_, err = ReadTile(valid, crs.Builtin{}, affine.Bounds{Xmin: 0, Ymin: 0, Xmax: 0, Ymax: 4}, tileOptions(4))
	assert.ErrorIs(t, err, ErrInvalidParameter)

	opts := tileOptions(4)
	opts.BoundsCRS = "EPSG:4326"
	_, err = ReadTile(valid, crs.Builtin{}, bounds, opts)
	assert.ErrorIs(t, err, ErrDatasetCRS)
}

func TestTileLocatorExample(t *testing.T) {
	// dataset bounds (0, 0, 10, 10) reproject to (-1, -1, 11, 11)
	sourceBounds := affine.Bounds{Xmin: 0, Ymin: 0, Xmax: 10, Ymax: 10}
	opener := freshOpener(func() (*memraster.Dataset, error) {
		return memraster.New(10, 10, "SOURCE", affine.FromBounds(sourceBounds, 10, 10), constant(100, 1))
	})
	tiler := newTiler(t, localConfig(), opener, scaleTransformer{})

	info, err := tiler.Bounds("source")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1, -1, 11, 11}, info.Bounds[:], 1e-9)
	assert.Equal(t, "source", info.URL)

	locator := tiler.Locator()
	display := affine.NewBounds(info.Bounds)

	// tile 2/2/1 covers (20, 20, 30, 30)
	exists, err := locator.TileExists(display, tiles.NewTileID(2, 2, 1))
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = tiler.Tile("source", 2, 2, 1, tileOptions(16))
	assert.ErrorIs(t, err, ErrTileOutsideBounds)

	// tile 2/1/2 covers (10, 10, 20, 20)
	exists, err = locator.TileExists(display, tiles.NewTileID(2, 1, 2))
	require.NoError(t, err)
	assert.True(t, exists)

	result, err := tiler.Tile("source", 2, 1, 2, tileOptions(16))
	require.NoError(t, err)
	assert.False(t, result.AllValid())
	assert.False(t, result.NoneValid())
	assert.True(t, result.Valid(15, 0), "lower left of tile overlaps dataset")
	assert.False(t, result.Valid(0, 15), "upper right of tile is outside dataset")
}

func TestTileOutsideBounds(t *testing.T) {
	bounds := affine.Bounds{Xmin: 0, Ymin: 0, Xmax: 10, Ymax: 10}
	ds := newDataset(t, 10, 10, "LOCAL", bounds, constant(100, 1))
	tiler := newTiler(t, localConfig(), openerFor(ds), crs.Builtin{})

	// tile 2/1/3 covers (10, 0, 20, 10) and only touches the dataset
	_, err := tiler.Tile("local", 2, 1, 3, tileOptions(16))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTileOutsideBounds)

	var outside *TileOutsideBoundsError
	require.True(t, errors.As(err, &outside))
	assert.Equal(t, tiles.TileID{Zoom: 2, X: 1, Y: 3}, outside.Tile)
	assert.True(t, ds.Closed())

	ds = newDataset(t, 10, 10, "LOCAL", bounds, constant(100, 1))
	tiler = newTiler(t, localConfig(), openerFor(ds), crs.Builtin{})

	// tile 2/0/3 covers the dataset exactly
	result, err := tiler.Tile("local", 2, 0, 3, tileOptions(16))
	require.NoError(t, err)
	assert.True(t, result.AllValid())
	assert.Equal(t, bounds, result.Bounds)
	assert.Equal(t, &affine.Affine{A: 10.0 / 16, B: 0, C: 0, D: 0, E: -10.0 / 16, F: 10}, result.Transform())
}

func TestLocatorSymmetry(t *testing.T) {
	locator := NewLocator(localScheme)
	bounds := affine.Bounds{Xmin: 5, Ymin: 5, Xmax: 25, Ymax: 25}

	for x := uint32(0); x < 4; x++ {
		for y := uint32(0); y < 4; y++ {
			tile := tiles.NewTileID(2, x, y)
			exists, err := locator.TileExists(bounds, tile)
			require.NoError(t, err)

			tileBounds, err := locator.TileBounds(tile)
			require.NoError(t, err)
			assert.Equal(t, bounds.Intersects(tileBounds), exists)
			assert.Equal(t, tileBounds.Intersects(bounds), exists)
		}
	}

	_, err := locator.TileExists(bounds, tiles.NewTileID(2, 4, 0))
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = locator.TileExists(bounds, tiles.NewTileID(9, 0, 0))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestTileInvalidParameters(t *testing.T) {
	bounds := affine.Bounds{Xmin: 0, Ymin: 0, Xmax: 10, Ymax: 10}
	ds := &failingDataset{Dataset: newDataset(t, 10, 10, "LOCAL", bounds, constant(100, 1))}
	opened := 0
	opener := raster.OpenerFunc(func(address string) (raster.Dataset, error) {
		opened++
		return ds, nil
	})
	tiler := newTiler(t, localConfig(), opener, crs.Builtin{})

	badIndexes := tileOptions(16)
	badIndexes.Indexes = []int{0}

	tests := []struct {
		name    string
		z, x, y int
		opts    TileOptions
	}{
		{"negative zoom", -1, 0, 0, tileOptions(16)},
		{"x out of range", 1, 2, 0, tileOptions(16)},
		{"beyond max zoom", 9, 0, 0, tileOptions(16)},
		{"zero tile size", 0, 0, 0, tileOptions(0)},
		{"tile size too large", 0, 0, 0, tileOptions(MaxTileSize + 1)},
		{"band index 0", 0, 0, 0, badIndexes},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tiler.Tile("local", tc.z, tc.x, tc.y, tc.opts)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
	assert.Equal(t, 0, opened, "invalid parameters are rejected before opening the dataset")

	// band index beyond the dataset is checked once the dataset is open
	opts := tileOptions(16)
	opts.Indexes = []int{2}
	_, err := tiler.Tile("local", 0, 0, 0, opts)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Equal(t, 0, ds.reads)
}

func TestTileClosesOnError(t *testing.T) {
	bounds := affine.Bounds{Xmin: 0, Ymin: 0, Xmax: 10, Ymax: 10}
	ds := &failingDataset{Dataset: newDataset(t, 10, 10, "LOCAL", bounds, constant(100, 1))}
	tiler := newTiler(t, localConfig(), openerFor(ds), crs.Builtin{})

	_, err := tiler.Tile("local", 0, 0, 0, tileOptions(16))
	assert.ErrorIs(t, err, ErrDatasetIO)
	assert.Equal(t, 1, ds.reads)
	assert.True(t, ds.Closed())

	failing := raster.OpenerFunc(func(address string) (raster.Dataset, error) {
		return nil, errors.New("no such file")
	})
	tiler = newTiler(t, localConfig(), failing, crs.Builtin{})
	_, err = tiler.Bounds("missing")
	assert.ErrorIs(t, err, ErrDatasetIO)
}

func TestTileDatasetWithoutCRS(t *testing.T) {
	ds := newDataset(t, 10, 10, "", affine.Bounds{Xmin: 0, Ymin: 0, Xmax: 10, Ymax: 10}, constant(100, 1))
	tiler := newTiler(t, localConfig(), openerFor(ds), crs.Builtin{})

	_, err := tiler.Tile("local", 0, 0, 0, tileOptions(16))
	assert.ErrorIs(t, err, ErrDatasetCRS)
	assert.True(t, ds.Closed())

	_, err = tiler.Bounds("local")
	assert.ErrorIs(t, err, ErrDatasetCRS)
}

func TestNewValidatesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DisplayCRS = "EPSG:4326"
	_, err := New(cfg, raster.OpenerFunc(nil), crs.Builtin{})
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = New(DefaultConfig(), nil, crs.Builtin{})
	assert.ErrorIs(t, err, ErrInvalidParameter)

	// bounds CRS is independent of the tile scheme
	cfg = DefaultConfig()
	cfg.BoundsCRS = "EPSG:5514"
	_, err = New(cfg, raster.OpenerFunc(nil), crs.Builtin{})
	assert.NoError(t, err)
}

func TestBoundsCRS(t *testing.T) {
	quarter := affine.Bounds{Xmin: 0, Ymin: 0, Xmax: tiles.ORIGIN / 2, Ymax: tiles.ORIGIN / 2}
	opener := freshOpener(func() (*memraster.Dataset, error) {
		return memraster.New(64, 64, "EPSG:3857", affine.FromBounds(quarter, 64, 64), constant(64*64, 1))
	})

	cfg := DefaultConfig()
	cfg.BoundsCRS = "EPSG:4326"
	tiler := newTiler(t, cfg, opener, crs.Builtin{})

	info, err := tiler.Bounds("quarter")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0, 90, 66.51326044311186}, info.Bounds[:], 1e-6)

	// tiles and zoom levels still use the scheme CRS
	display, err := tiler.DisplayBounds("quarter")
	require.NoError(t, err)
	assert.Equal(t, quarter, display)

	metadata, err := tiler.Metadata("quarter", DefaultStatsOptions())
	require.NoError(t, err)
	assert.Equal(t, "EPSG:4326", metadata.CRS)
	assert.InDeltaSlice(t, info.Bounds[:], metadata.Bounds[:], 1e-9)

	result, err := tiler.Tile("quarter", 1, 1, 0, tileOptions(16))
	require.NoError(t, err)
	assert.Equal(t, "EPSG:3857", result.CRS)
	assert.True(t, result.AllValid())

	// unsupported bounds CRS
	cfg.BoundsCRS = "EPSG:5514"
	tiler = newTiler(t, cfg, opener, crs.Builtin{})
	_, err = tiler.Bounds("quarter")
	assert.ErrorIs(t, err, ErrDatasetCRS)
}
