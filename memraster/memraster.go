// Package memraster provides an in-memory raster.Dataset, used when the
// pixel values are already in memory and by tests that must run without
// GDAL.
package memraster

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/brendan-ward/geotiler/affine"
	"github.com/brendan-ward/geotiler/raster"
)

var ErrClosed = errors.New("dataset is closed")

type Dataset struct {
	width     int
	height    int
	crs       string
	transform *affine.Affine
	bands     [][]float64
	nodata    map[int]float64
	dtype     raster.DataType
	overviews []int

	mu     sync.Mutex
	closed bool
}

// New creates a width x height dataset with one row-major buffer per band
func New(width int, height int, crs string, transform *affine.Affine, bands ...[]float64) (*Dataset, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dataset size: %d x %d", width, height)
	}
	if len(bands) == 0 {
		return nil, fmt.Errorf("dataset must have at least one band")
	}
	for i, band := range bands {
		if len(band) != width*height {
			return nil, fmt.Errorf("band %d has %d values, expected %d", i+1, len(band), width*height)
		}
	}

	return &Dataset{
		width:     width,
		height:    height,
		crs:       crs,
		transform: transform,
		bands:     bands,
		nodata:    make(map[int]float64),
		dtype:     raster.Float64,
	}, nil
}

// SetNodata sets the no-data value of a band
func (d *Dataset) SetNodata(band int, value float64) {
	d.nodata[band] = value
}

func (d *Dataset) SetDataType(dtype raster.DataType) {
	d.dtype = dtype
}

// SetOverviews sets the decimation factors reported by Overviews
func (d *Dataset) SetOverviews(factors ...int) {
	d.overviews = factors
}

func (d *Dataset) Width() int {
	return d.width
}

func (d *Dataset) Height() int {
	return d.height
}

func (d *Dataset) Count() int {
	return len(d.bands)
}

func (d *Dataset) CRS() string {
	return d.crs
}

func (d *Dataset) Transform() (*affine.Affine, error) {
	if d.transform == nil {
		return nil, fmt.Errorf("dataset has no geotransform")
	}
	return d.transform, nil
}

func (d *Dataset) Nodata(band int) (float64, bool) {
	value, ok := d.nodata[band]
	return value, ok
}

func (d *Dataset) DataType() raster.DataType {
	return d.dtype
}

func (d *Dataset) Overviews() []int {
	return d.overviews
}

func (d *Dataset) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Closed is true once Close has been called
func (d *Dataset) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Read samples the window at the center of each output pixel.
// Supports nearest, bilinear and average resampling.
func (d *Dataset) Read(req raster.ReadRequest) ([][]float64, error) {
	if d.Closed() {
		return nil, ErrClosed
	}
	if req.Width <= 0 || req.Height <= 0 {
		return nil, fmt.Errorf("invalid output size: %d x %d", req.Width, req.Height)
	}
	if req.Window == nil || !req.Window.Finite() {
		return nil, fmt.Errorf("invalid window: %v", req.Window)
	}

	var sample func(index int, x0, y0, x1, y1 float64) float64
	switch req.Resampling {
	case raster.Nearest:
		sample = d.nearest
	case raster.Bilinear:
		sample = d.bilinear
	case raster.Average:
		sample = d.average
	default:
		return nil, fmt.Errorf("resampling method %v is not supported for in-memory datasets", req.Resampling)
	}

	bands := req.Bands
	if len(bands) == 0 {
		bands = raster.Indexes(d.Count())
	}

	xRes := req.Window.Width / float64(req.Width)
	yRes := req.Window.Height / float64(req.Height)

	out := make([][]float64, len(bands))
	for i, index := range bands {
		if index < 1 || index > d.Count() {
			return nil, fmt.Errorf("band index %d out of range 1..%d", index, d.Count())
		}
		buffer := make([]float64, req.Width*req.Height)
		for row := 0; row < req.Height; row++ {
			y0 := req.Window.YOffset + float64(row)*yRes
			for col := 0; col < req.Width; col++ {
				x0 := req.Window.XOffset + float64(col)*xRes
				buffer[row*req.Width+col] = sample(index, x0, y0, x0+xRes, y0+yRes)
			}
		}
		out[i] = buffer
	}

	return out, nil
}

// fill is the value of samples outside the dataset
func (d *Dataset) fill(index int) float64 {
	if value, ok := d.nodata[index]; ok {
		return value
	}
	return 0
}

func (d *Dataset) at(index int, col int, row int) float64 {
	col = clampInt(col, 0, d.width-1)
	row = clampInt(row, 0, d.height-1)
	return d.bands[index-1][row*d.width+col]
}

func (d *Dataset) nearest(index int, x0, y0, x1, y1 float64) float64 {
	x := (x0 + x1) / 2
	y := (y0 + y1) / 2
	if x < 0 || y < 0 || x >= float64(d.width) || y >= float64(d.height) {
		return d.fill(index)
	}
	return d.at(index, int(x), int(y))
}

// valid is false for no-data values of band index
func (d *Dataset) valid(index int, value float64) bool {
	nodata, ok := d.nodata[index]
	if !ok {
		return true
	}
	if math.IsNaN(nodata) {
		return !math.IsNaN(value)
	}
	return value != nodata
}

// bilinear interpolates between the valid pixels around the sample point;
// no-data neighbours are left out and the weights renormalized
func (d *Dataset) bilinear(index int, x0, y0, x1, y1 float64) float64 {
	// pixel centers are at +0.5
	x := (x0+x1)/2 - 0.5
	y := (y0+y1)/2 - 0.5
	if x < -0.5 || y < -0.5 || x >= float64(d.width)-0.5 || y >= float64(d.height)-0.5 {
		return d.fill(index)
	}

	col := int(math.Floor(x))
	row := int(math.Floor(y))
	fx := x - float64(col)
	fy := y - float64(row)

	neighbours := []struct {
		col    int
		row    int
		weight float64
	}{
		{col, row, (1 - fx) * (1 - fy)},
		{col + 1, row, fx * (1 - fy)},
		{col, row + 1, (1 - fx) * fy},
		{col + 1, row + 1, fx * fy},
	}

	sum := 0.0
	weight := 0.0
	for _, n := range neighbours {
		if n.weight == 0 {
			continue
		}
		value := d.at(index, n.col, n.row)
		if !d.valid(index, value) {
			continue
		}
		sum += value * n.weight
		weight += n.weight
	}
	if weight == 0 {
		return d.fill(index)
	}
	return sum / weight
}

// average is the mean of the valid pixels under the footprint
func (d *Dataset) average(index int, x0, y0, x1, y1 float64) float64 {
	colStart := clampInt(int(math.Floor(x0)), 0, d.width)
	colEnd := clampInt(int(math.Ceil(x1)), 0, d.width)
	rowStart := clampInt(int(math.Floor(y0)), 0, d.height)
	rowEnd := clampInt(int(math.Ceil(y1)), 0, d.height)

	band := d.bands[index-1]
	sum := 0.0
	count := 0
	covered := 0
	for row := rowStart; row < rowEnd; row++ {
		for col := colStart; col < colEnd; col++ {
			covered++
			value := band[row*d.width+col]
			if !d.valid(index, value) {
				continue
			}
			sum += value
			count++
		}
	}
	if covered == 0 {
		return d.nearest(index, x0, y0, x1, y1)
	}
	if count == 0 {
		return d.fill(index)
	}
	return sum / float64(count)
}

func clampInt(v int, lo int, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
