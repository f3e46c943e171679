package tiler

import (
	"errors"
	"fmt"
	"math"

	"github.com/brendan-ward/geotiler/affine"
	"github.com/brendan-ward/geotiler/array"
	"github.com/brendan-ward/geotiler/crs"
	"github.com/brendan-ward/geotiler/raster"
	"github.com/brendan-ward/geotiler/window"
)

const (
	MaskValid   uint8 = 255
	MaskInvalid uint8 = 0
)

// TileResult holds the values and validity mask of a square tile
type TileResult struct {
	// Data holds one Size x Size row-major buffer per band
	Data [][]float64
	// Mask is MaskValid where every band has data
	Mask     []uint8
	Size     int
	Bands    []int
	DataType raster.DataType
	// Nodata holds the fill value of each band, if any
	Nodata []*float64
	Bounds affine.Bounds
	CRS    string
}

func newTileResult(size int, bands []int, dtype raster.DataType, nodata []*float64, bounds affine.Bounds, crs string) *TileResult {
	data := make([][]float64, len(bands))
	for i := range data {
		data[i] = make([]float64, size*size)
		if nodata[i] != nil {
			array.Fill(data[i], dtype.Cast(*nodata[i]))
		}
	}

	mask := make([]uint8, size*size)
	array.Fill(mask, MaskInvalid)

	return &TileResult{
		Data:     data,
		Mask:     mask,
		Size:     size,
		Bands:    bands,
		DataType: dtype,
		Nodata:   nodata,
		Bounds:   bounds,
		CRS:      crs,
	}
}

// Valid is true if the pixel at row, col has data
func (r *TileResult) Valid(row int, col int) bool {
	return r.Mask[row*r.Size+col] == MaskValid
}

func (r *TileResult) AllValid() bool {
	return array.AllEquals(r.Mask, MaskValid)
}

func (r *TileResult) NoneValid() bool {
	return array.AllEquals(r.Mask, MaskInvalid)
}

// Transform maps tile pixels onto the tile bounds
func (r *TileResult) Transform() *affine.Affine {
	return affine.FromBounds(r.Bounds, r.Size, r.Size)
}

// ReadTile reads the part of ds covered by bounds into a square tile.
// bounds are in opts.BoundsCRS, or the dataset CRS if that is not set.
// Pixels outside of the dataset are filled with the no-data value (or 0)
// and masked as invalid.  A tile that covers no dataset pixel is returned
// all-invalid without reading.
func ReadTile(ds raster.Dataset, t crs.Transformer, bounds affine.Bounds, opts TileOptions) (*TileResult, error) {
	return readTile(ds, t, bounds, opts, false)
}

// readTile reads a tile; with requireOverlap, a window that covers no output
// pixel after clipping fails with ErrEmptyWindow.
func readTile(ds raster.Dataset, t crs.Transformer, bounds affine.Bounds, opts TileOptions, requireOverlap bool) (*TileResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if !bounds.Valid() {
		return nil, fmt.Errorf("%w: invalid tile bounds %v", ErrInvalidParameter, bounds)
	}

	indexes, err := resolveIndexes(opts.Indexes, ds.Count())
	if err != nil {
		return nil, err
	}

	if ds.CRS() == "" {
		return nil, fmt.Errorf("%w: dataset does not have a CRS", ErrDatasetCRS)
	}

	native := bounds
	if opts.BoundsCRS != "" {
		native, err = crs.TransformBounds(t, opts.BoundsCRS, ds.CRS(), bounds, opts.DensifyPoints)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatasetCRS, err)
		}
	}

	dtype := opts.DataType
	if dtype == raster.Unknown {
		dtype = ds.DataType()
	}

	nodata := make([]*float64, len(indexes))
	for i, index := range indexes {
		if opts.Nodata != nil {
			nodata[i] = opts.Nodata
		} else if value, ok := ds.Nodata(index); ok {
			nodata[i] = &value
		}
	}

	size := opts.TileSize
	result := newTileResult(size, indexes, dtype, nodata, bounds, opts.BoundsCRS)
	if result.CRS == "" {
		result.CRS = ds.CRS()
	}

	transform, err := ds.Transform()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetIO, err)
	}
	if !transform.IsNorthUp() {
		return nil, fmt.Errorf("%w: rotated or south-up transforms are not supported: %v", ErrDatasetIO, transform)
	}

	full := window.FromBounds(transform, native)
	if !full.Finite() {
		return nil, fmt.Errorf("%w: invalid window %v for bounds %v", ErrDatasetIO, full, native)
	}

	clipped, ok := full.Intersection(window.Full(ds.Width(), ds.Height()))
	if !ok {
		if requireOverlap {
			return nil, fmt.Errorf("%w: window %v does not overlap the dataset", ErrEmptyWindow, full)
		}
		return result, nil
	}

	// place the clipped window within the output tile
	xScale := full.Width / float64(size)
	yScale := full.Height / float64(size)
	left := roundClamp((clipped.XOffset-full.XOffset)/xScale, size)
	right := roundClamp((clipped.XOffset+clipped.Width-full.XOffset)/xScale, size)
	top := roundClamp((clipped.YOffset-full.YOffset)/yScale, size)
	bottom := roundClamp((clipped.YOffset+clipped.Height-full.YOffset)/yScale, size)

	width := right - left
	height := bottom - top
	if width <= 0 || height <= 0 {
		if requireOverlap {
			return nil, fmt.Errorf("%w: window %v covers less than one output pixel", ErrEmptyWindow, clipped)
		}
		return result, nil
	}

	data, err := ds.Read(raster.ReadRequest{
		Window:     clipped,
		Width:      width,
		Height:     height,
		Bands:      indexes,
		Resampling: opts.Resampling,
	})
	if err != nil {
		if errors.Is(err, ErrDatasetIO) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrDatasetIO, err)
	}
	if len(data) != len(indexes) {
		return nil, fmt.Errorf("%w: read returned %d bands, expected %d", ErrDatasetIO, len(data), len(indexes))
	}

	// mask pixels that are no-data in any band
	valid := make([]uint8, width*height)
	array.Fill(valid, MaskValid)
	for i, values := range data {
		if len(values) != width*height {
			return nil, fmt.Errorf("%w: read returned %d values, expected %d", ErrDatasetIO, len(values), width*height)
		}
		if nodata[i] != nil {
			for j, v := range values {
				if isNodata(v, *nodata[i]) {
					valid[j] = MaskInvalid
				}
			}
		}
		for j, v := range values {
			values[j] = dtype.Cast(v)
		}

		if err := array.Paste(result.Data[i], size, size, values, height, width, top, left); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatasetIO, err)
		}
	}

	if err := array.Paste(result.Mask, size, size, valid, height, width, top, left); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetIO, err)
	}

	return result, nil
}

func isNodata(value float64, nodata float64) bool {
	if math.IsNaN(nodata) {
		return math.IsNaN(value)
	}
	return value == nodata
}

func roundClamp(v float64, size int) int {
	return int(math.Min(math.Max(math.Round(v), 0), float64(size)))
}
