package tiler

import (
	"fmt"
	"log/slog"

	"github.com/brendan-ward/geotiler/affine"
	"github.com/brendan-ward/geotiler/crs"
	"github.com/brendan-ward/geotiler/raster"
	"github.com/brendan-ward/geotiler/stats"
	"github.com/brendan-ward/geotiler/tiles"
)

// BoundsInfo is the bounds of a dataset in the configured bounds CRS
type BoundsInfo struct {
	URL    string     `json:"url"`
	Bounds [4]float64 `json:"bounds"`
}

// Metadata describes a dataset: its bounds, zoom range and band statistics
type Metadata struct {
	Address    string                   `json:"address"`
	Bounds     [4]float64               `json:"bounds"`
	CRS        string                   `json:"crs"`
	MinZoom    uint8                    `json:"minzoom"`
	MaxZoom    uint8                    `json:"maxzoom"`
	Statistics map[int]*stats.BandStats `json:"statistics"`
}

// Tiler reads bounds, metadata and tiles from datasets.  Each call opens
// its own dataset handle and closes it before returning, so a Tiler is safe
// for concurrent use.
type Tiler struct {
	cfg         Config
	opener      raster.Opener
	transformer crs.Transformer
	locator     *Locator
	logger      *slog.Logger
}

type Option func(*Tiler)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tiler) {
		t.logger = logger
	}
}

func New(cfg Config, opener raster.Opener, transformer crs.Transformer, opts ...Option) (*Tiler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opener == nil || transformer == nil {
		return nil, fmt.Errorf("%w: opener and transformer are required", ErrInvalidParameter)
	}

	t := &Tiler{
		cfg:         cfg,
		opener:      opener,
		transformer: transformer,
		locator:     NewLocator(cfg.Scheme),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *Tiler) Config() Config {
	return t.cfg
}

func (t *Tiler) Locator() *Locator {
	return t.locator
}

func (t *Tiler) open(address string) (raster.Dataset, error) {
	ds, err := t.opener.Open(address)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open %s: %v", ErrDatasetIO, address, err)
	}
	return ds, nil
}

// displayBounds returns the bounds of ds in the display CRS
func (t *Tiler) displayBounds(ds raster.Dataset) (affine.Bounds, error) {
	return t.datasetBounds(ds, t.cfg.DisplayCRS)
}

func (t *Tiler) datasetBounds(ds raster.Dataset, dst string) (affine.Bounds, error) {
	if ds.CRS() == "" {
		return affine.Bounds{}, fmt.Errorf("%w: dataset does not have a CRS", ErrDatasetCRS)
	}

	bounds, err := raster.Bounds(ds)
	if err != nil {
		return affine.Bounds{}, fmt.Errorf("%w: %v", ErrDatasetIO, err)
	}

	bounds, err = crs.TransformBounds(t.transformer, ds.CRS(), dst, bounds, t.cfg.DensifyPoints)
	if err != nil {
		return affine.Bounds{}, fmt.Errorf("%w: %v", ErrDatasetCRS, err)
	}
	return bounds, nil
}

// Bounds returns the bounds of the dataset at address in the configured
// bounds CRS
func (t *Tiler) Bounds(address string) (*BoundsInfo, error) {
	bounds, err := t.boundsIn(address, t.cfg.boundsCRS())
	if err != nil {
		return nil, err
	}

	return &BoundsInfo{
		URL:    address,
		Bounds: bounds.Array(),
	}, nil
}

// DisplayBounds returns the bounds of the dataset at address in the display
// CRS, the CRS of the tile scheme
func (t *Tiler) DisplayBounds(address string) (affine.Bounds, error) {
	return t.boundsIn(address, t.cfg.DisplayCRS)
}

func (t *Tiler) boundsIn(address string, dst string) (affine.Bounds, error) {
	ds, err := t.open(address)
	if err != nil {
		return affine.Bounds{}, err
	}
	defer ds.Close()

	return t.datasetBounds(ds, dst)
}

// Metadata returns the bounds, zoom range and band statistics of the dataset
// at address.  Bounds are in opts.BoundsCRS, or the configured bounds CRS if
// not set.
func (t *Tiler) Metadata(address string, opts StatsOptions) (*Metadata, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.BoundsCRS == "" {
		opts.BoundsCRS = t.cfg.boundsCRS()
	}

	ds, err := t.open(address)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	if len(ds.Overviews()) == 0 {
		t.logger.Warn("dataset has no overviews, reading full resolution", "address", address, "width", ds.Width(), "height", ds.Height())
	}

	summary, err := Summarize(ds, t.transformer, opts)
	if err != nil {
		return nil, err
	}

	displayBounds, err := t.displayBounds(ds)
	if err != nil {
		return nil, err
	}
	minZoom, maxZoom := ZoomRange(t.cfg.Scheme, displayBounds, ds.Width(), ds.Height(), opts.TileSize)

	t.logger.Debug("read metadata", "address", address, "decimation", summary.Decimation, "minzoom", minZoom, "maxzoom", maxZoom)

	return &Metadata{
		Address:    address,
		Bounds:     summary.Bounds.Array(),
		CRS:        summary.CRS,
		MinZoom:    minZoom,
		MaxZoom:    maxZoom,
		Statistics: summary.Statistics,
	}, nil
}

// Tile reads tile z/x/y from the dataset at address.  Returns a
// *TileOutsideBoundsError if the tile does not overlap the dataset, and
// ErrEmptyWindow if it overlaps but no dataset pixel falls within it.
func (t *Tiler) Tile(address string, z int, x int, y int, opts TileOptions) (*TileResult, error) {
	tile, err := tiles.ParseTileID(z, x, y)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	tileBounds, err := t.locator.TileBounds(tile)
	if err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	ds, err := t.open(address)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	bounds, err := t.displayBounds(ds)
	if err != nil {
		return nil, err
	}

	exists, err := t.locator.TileExists(bounds, tile)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &TileOutsideBoundsError{Tile: *tile}
	}

	opts.BoundsCRS = t.cfg.DisplayCRS

	t.logger.Debug("read tile", "address", address, "tile", tile.Path(), "size", opts.TileSize)

	return readTile(ds, t.transformer, tileBounds, opts, true)
}
