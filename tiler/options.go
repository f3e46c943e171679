package tiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brendan-ward/geotiler/crs"
	"github.com/brendan-ward/geotiler/raster"
	"github.com/brendan-ward/geotiler/stats"
)

const (
	DefaultTileSize = 256
	MaxTileSize     = 4096
)

// TileOptions controls how a tile is read
type TileOptions struct {
	TileSize int
	// Indexes of the bands to read; all bands if empty
	Indexes    []int
	Resampling raster.Resampling
	// Nodata overrides the no-data value of every band
	Nodata *float64
	// DataType of the output values; the dataset type if Unknown
	DataType raster.DataType
	// BoundsCRS is the CRS of the tile bounds; the dataset CRS if empty
	BoundsCRS     string
	DensifyPoints int
}

func DefaultTileOptions() TileOptions {
	return TileOptions{
		TileSize:      DefaultTileSize,
		Resampling:    raster.Nearest,
		DensifyPoints: crs.DefaultDensifyPoints,
	}
}

// Validate checks options that do not depend on the dataset
func (o TileOptions) Validate() error {
	if o.TileSize <= 0 || o.TileSize > MaxTileSize {
		return fmt.Errorf("%w: tile size must be in 1..%d, got %d", ErrInvalidParameter, MaxTileSize, o.TileSize)
	}
	if !o.Resampling.Valid() {
		return fmt.Errorf("%w: unknown resampling method %v", ErrInvalidParameter, o.Resampling)
	}
	if o.DataType != raster.Unknown && !o.DataType.Valid() {
		return fmt.Errorf("%w: unknown data type %v", ErrInvalidParameter, o.DataType)
	}
	if o.DensifyPoints < 0 {
		return fmt.Errorf("%w: densify points must be >= 0, got %d", ErrInvalidParameter, o.DensifyPoints)
	}
	return checkIndexes(o.Indexes, -1)
}

// ParseTileOptions creates TileOptions from string key / value pairs.
// Unknown keys are rejected.
func ParseTileOptions(values map[string]string) (TileOptions, error) {
	opts := DefaultTileOptions()

	for key, value := range values {
		var err error
		switch key {
		case "tilesize":
			opts.TileSize, err = strconv.Atoi(value)
		case "indexes":
			opts.Indexes, err = parseIndexes(value)
		case "resampling_method":
			opts.Resampling, err = raster.ParseResampling(value)
		case "nodata":
			opts.Nodata, err = parseNodata(value)
		case "dtype":
			opts.DataType, err = raster.ParseDataType(value)
		case "densify_pts":
			opts.DensifyPoints, err = strconv.Atoi(value)
		default:
			return opts, fmt.Errorf("%w: unknown tile option %q", ErrInvalidParameter, key)
		}
		if err != nil {
			return opts, fmt.Errorf("%w: %s: %v", ErrInvalidParameter, key, err)
		}
	}

	return opts, opts.Validate()
}

// StatsOptions controls how dataset statistics are calculated
type StatsOptions struct {
	// Percentiles (pmin, pmax) in 0..100
	Percentiles [2]float64
	// OverviewLevel selects an overview to read; -1 picks the first overview
	// smaller than MaxSize
	OverviewLevel  int
	MaxSize        int
	HistogramBins  int
	HistogramRange *[2]float64
	Indexes        []int
	Nodata         *float64
	Resampling     raster.Resampling
	// BoundsCRS is the CRS of the reported bounds
	BoundsCRS     string
	DensifyPoints int
	// TileSize is used to estimate the zoom range
	TileSize int
}

func DefaultStatsOptions() StatsOptions {
	return StatsOptions{
		Percentiles:   [2]float64{2, 98},
		OverviewLevel: -1,
		MaxSize:       1024,
		HistogramBins: 10,
		Resampling:    raster.Nearest,
		DensifyPoints: crs.DefaultDensifyPoints,
		TileSize:      DefaultTileSize,
	}
}

func (o StatsOptions) statsOptions() stats.Options {
	return stats.Options{
		Bins:        o.HistogramBins,
		Range:       o.HistogramRange,
		Percentiles: o.Percentiles,
	}
}

// Validate checks options that do not depend on the dataset
func (o StatsOptions) Validate() error {
	if err := o.statsOptions().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	if o.OverviewLevel < -1 {
		return fmt.Errorf("%w: overview level must be >= -1, got %d", ErrInvalidParameter, o.OverviewLevel)
	}
	if o.MaxSize <= 0 {
		return fmt.Errorf("%w: max size must be > 0, got %d", ErrInvalidParameter, o.MaxSize)
	}
	if !o.Resampling.Valid() {
		return fmt.Errorf("%w: unknown resampling method %v", ErrInvalidParameter, o.Resampling)
	}
	if o.DensifyPoints < 0 {
		return fmt.Errorf("%w: densify points must be >= 0, got %d", ErrInvalidParameter, o.DensifyPoints)
	}
	if o.TileSize <= 0 || o.TileSize > MaxTileSize {
		return fmt.Errorf("%w: tile size must be in 1..%d, got %d", ErrInvalidParameter, MaxTileSize, o.TileSize)
	}
	return checkIndexes(o.Indexes, -1)
}

// ParseStatsOptions creates StatsOptions from string key / value pairs.
// Unknown keys are rejected.
func ParseStatsOptions(values map[string]string) (StatsOptions, error) {
	opts := DefaultStatsOptions()

	for key, value := range values {
		var err error
		switch key {
		case "pmin":
			opts.Percentiles[0], err = strconv.ParseFloat(value, 64)
		case "pmax":
			opts.Percentiles[1], err = strconv.ParseFloat(value, 64)
		case "overview_level":
			opts.OverviewLevel, err = strconv.Atoi(value)
		case "max_size":
			opts.MaxSize, err = strconv.Atoi(value)
		case "histogram_bins":
			opts.HistogramBins, err = strconv.Atoi(value)
		case "histogram_range":
			opts.HistogramRange, err = parseRange(value)
		case "indexes":
			opts.Indexes, err = parseIndexes(value)
		case "nodata":
			opts.Nodata, err = parseNodata(value)
		case "resampling_method":
			opts.Resampling, err = raster.ParseResampling(value)
		case "dst_crs":
			opts.BoundsCRS = value
		case "densify_pts":
			opts.DensifyPoints, err = strconv.Atoi(value)
		case "tilesize":
			opts.TileSize, err = strconv.Atoi(value)
		default:
			return opts, fmt.Errorf("%w: unknown statistics option %q", ErrInvalidParameter, key)
		}
		if err != nil {
			return opts, fmt.Errorf("%w: %s: %v", ErrInvalidParameter, key, err)
		}
	}

	return opts, opts.Validate()
}

// checkIndexes verifies that all indexes are in 1..count; count < 0 skips
// the upper bound check.
func checkIndexes(indexes []int, count int) error {
	for _, index := range indexes {
		if index < 1 || (count >= 0 && index > count) {
			if count < 0 {
				return fmt.Errorf("%w: band index must be >= 1, got %d", ErrInvalidParameter, index)
			}
			return fmt.Errorf("%w: band index %d out of range 1..%d", ErrInvalidParameter, index, count)
		}
	}
	return nil
}

// resolveIndexes returns the requested band indexes, or all bands
func resolveIndexes(indexes []int, count int) ([]int, error) {
	if len(indexes) == 0 {
		return raster.Indexes(count), nil
	}
	if err := checkIndexes(indexes, count); err != nil {
		return nil, err
	}
	return indexes, nil
}

func parseIndexes(value string) ([]int, error) {
	parts := strings.Split(value, ",")
	indexes := make([]int, 0, len(parts))
	for _, part := range parts {
		index, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		indexes = append(indexes, index)
	}
	return indexes, nil
}

func parseNodata(value string) (*float64, error) {
	nodata, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return nil, err
	}
	return &nodata, nil
}

func parseRange(value string) (*[2]float64, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("range must be min,max: %q", value)
	}
	var rng [2]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}
		rng[i] = v
	}
	return &rng, nil
}
