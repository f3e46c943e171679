package tiler

import (
	"fmt"

	"github.com/brendan-ward/geotiler/affine"
	"github.com/brendan-ward/geotiler/crs"
	"github.com/brendan-ward/geotiler/raster"
	"github.com/brendan-ward/geotiler/stats"
	"github.com/brendan-ward/geotiler/window"
)

// StatsResult holds the bounds and per band statistics of a dataset
type StatsResult struct {
	Bounds affine.Bounds
	CRS    string
	// Decimation is the overview factor that was read
	Decimation int
	// Statistics by 1-based band index
	Statistics map[int]*stats.BandStats
}

// Decimation returns the overview factor to read for a width x height
// dataset.  Without overviews the full resolution is read, unless a level
// was requested explicitly.
func Decimation(overviews []int, width int, height int, opts StatsOptions) (int, error) {
	if opts.OverviewLevel >= 0 {
		if opts.OverviewLevel >= len(overviews) {
			return 0, fmt.Errorf("%w: overview level %d out of range, dataset has %d overviews", ErrInvalidParameter, opts.OverviewLevel, len(overviews))
		}
		return overviews[opts.OverviewLevel], nil
	}

	if len(overviews) == 0 {
		return 1, nil
	}

	// first overview smaller than max size, or the smallest overview
	factor := overviews[len(overviews)-1]
	for _, f := range overviews {
		if max(width/f, height/f) < opts.MaxSize {
			factor = f
			break
		}
	}
	return factor, nil
}

// Summarize calculates statistics of the bands of ds, read at a decimated
// resolution.  Bounds are reported in opts.BoundsCRS, or the dataset CRS if
// that is not set.
func Summarize(ds raster.Dataset, t crs.Transformer, opts StatsOptions) (*StatsResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	indexes, err := resolveIndexes(opts.Indexes, ds.Count())
	if err != nil {
		return nil, err
	}

	if ds.CRS() == "" {
		return nil, fmt.Errorf("%w: dataset does not have a CRS", ErrDatasetCRS)
	}

	bounds, err := raster.Bounds(ds)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetIO, err)
	}

	boundsCRS := opts.BoundsCRS
	if boundsCRS == "" {
		boundsCRS = ds.CRS()
	}
	bounds, err = crs.TransformBounds(t, ds.CRS(), boundsCRS, bounds, opts.DensifyPoints)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetCRS, err)
	}

	factor, err := Decimation(ds.Overviews(), ds.Width(), ds.Height(), opts)
	if err != nil {
		return nil, err
	}

	width := max(ds.Width()/factor, 1)
	height := max(ds.Height()/factor, 1)

	data, err := ds.Read(raster.ReadRequest{
		Window:     window.Full(ds.Width(), ds.Height()),
		Width:      width,
		Height:     height,
		Bands:      indexes,
		Resampling: opts.Resampling,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetIO, err)
	}
	if len(data) != len(indexes) {
		return nil, fmt.Errorf("%w: read returned %d bands, expected %d", ErrDatasetIO, len(data), len(indexes))
	}

	result := &StatsResult{
		Bounds:     bounds,
		CRS:        boundsCRS,
		Decimation: factor,
		Statistics: make(map[int]*stats.BandStats, len(indexes)),
	}

	for i, index := range indexes {
		nodata, hasNodata := ds.Nodata(index)
		if opts.Nodata != nil {
			nodata, hasNodata = *opts.Nodata, true
		}

		bandStats, err := stats.Summarize(stats.Valid(data[i], nodata, hasNodata), opts.statsOptions())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
		}
		result.Statistics[index] = bandStats
	}

	return result, nil
}
