package raster

import (
	"github.com/brendan-ward/geotiler/affine"
	"github.com/brendan-ward/geotiler/window"
)

// Dataset is an open handle to a georeferenced raster.  Band indexes are
// 1-based.
type Dataset interface {
	Width() int
	Height() int
	Count() int
	CRS() string
	Transform() (*affine.Affine, error)
	Nodata(band int) (float64, bool)
	DataType() DataType
	// Overviews returns the decimation factors of the overviews, in
	// increasing order
	Overviews() []int
	// Read returns one Width x Height row-major buffer per requested band
	Read(req ReadRequest) ([][]float64, error)
	Close() error
}

// ReadRequest is a resampled read of Window into a Width x Height buffer
type ReadRequest struct {
	Window     *window.Window
	Width      int
	Height     int
	Bands      []int
	Resampling Resampling
}

// Opener opens a dataset from an address (path or URL)
type Opener interface {
	Open(address string) (Dataset, error)
}

// OpenerFunc adapts a function to Opener
type OpenerFunc func(address string) (Dataset, error)

func (f OpenerFunc) Open(address string) (Dataset, error) {
	return f(address)
}

// Bounds returns the bounds of the dataset in its own CRS
func Bounds(ds Dataset) (affine.Bounds, error) {
	transform, err := ds.Transform()
	if err != nil {
		return affine.Bounds{}, err
	}

	bounds := affine.EmptyBounds()
	for _, corner := range [4][2]float64{
		{0, 0},
		{float64(ds.Width()), 0},
		{0, float64(ds.Height())},
		{float64(ds.Width()), float64(ds.Height())},
	} {
		x, y := transform.Multiply(corner[0], corner[1])
		bounds = bounds.Extend(x, y)
	}
	return bounds, nil
}

// Indexes returns 1..count
func Indexes(count int) []int {
	indexes := make([]int, count)
	for i := range indexes {
		indexes[i] = i + 1
	}
	return indexes
}
