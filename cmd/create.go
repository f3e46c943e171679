package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/brendan-ward/geotiler/affine"
	"github.com/brendan-ward/geotiler/tiler"
	"github.com/brendan-ward/geotiler/tiles"
	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	minzoom       uint8
	maxzoom       uint8
	tilesetName   string
	description   string
	numWorkers    int
	tileSize      int
	colormap      string
	ramp          string
	rescale       string
	createOptions []string
	showProgress  bool
)

var createCmd = &cobra.Command{
	Use:   "create [ADDRESS] [OUT.mbtiles|OUT.pmtiles]",
	Short: "Create a PNG tileset from a raster dataset",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 {
			return errors.New("dataset address and output filename are required")
		}
		outDir, _ := path.Split(args[1])
		if outDir != "" {
			if _, err := os.Stat(outDir); errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("output directory '%s' does not exist", outDir)
			}
		}
		switch path.Ext(args[1]) {
		case ".mbtiles", ".pmtiles":
		default:
			return errors.New("output filename must end in '.mbtiles' or '.pmtiles'")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// validate flags
		if numWorkers < 1 {
			numWorkers = 1
		}
		if cmd.Flags().Changed("minzoom") && cmd.Flags().Changed("maxzoom") && maxzoom < minzoom {
			return errors.New("maxzoom must be no smaller than minzoom")
		}

		return create(cmd, args[0], args[1])
	},
}

func init() {
	createCmd.Flags().Uint8VarP(&minzoom, "minzoom", "Z", 0, "minimum zoom level (default: estimated from dataset)")
	createCmd.Flags().Uint8VarP(&maxzoom, "maxzoom", "z", 0, "maximum zoom level (default: estimated from dataset)")
	createCmd.Flags().IntVarP(&tileSize, "tilesize", "s", tiler.DefaultTileSize, "tile size in pixels")
	createCmd.Flags().StringVarP(&tilesetName, "name", "n", "", "tileset name")
	createCmd.Flags().StringVar(&description, "description", "", "tileset description")
	createCmd.Flags().IntVarP(&numWorkers, "workers", "w", 4, "number of workers to create tiles")
	createCmd.Flags().StringVar(&colormap, "colormap", "", "colormap of <value>:<hex> entries, e.g., 1:#AABBCC,2:#DDEEFF")
	createCmd.Flags().StringVar(&ramp, "ramp", "", "color ramp of hex colors, e.g., #440154,#21918c,#fde725")
	createCmd.Flags().StringVar(&rescale, "rescale", "", "stretch band values from min,max to 0..255 (default: percentile range)")
	createCmd.Flags().StringArrayVarP(&createOptions, "option", "o", nil, "tile option as key=value, e.g., -o indexes=1,2,3")
	createCmd.Flags().BoolVar(&showProgress, "progress", true, "show progress bars")
}

// zoomRanges returns the tile range of bounds at each zoom level
func zoomRanges(scheme tiles.Scheme, bounds affine.Bounds, minZoom uint8, maxZoom uint8) [][2]*tiles.TileID {
	ranges := make([][2]*tiles.TileID, 0, int(maxZoom)-int(minZoom)+1)
	for zoom := int(minZoom); zoom <= int(maxZoom); zoom++ {
		minTile, maxTile := scheme.TileRange(uint8(zoom), bounds)
		ranges = append(ranges, [2]*tiles.TileID{minTile, maxTile})
	}
	return ranges
}

func produce(ctx context.Context, ranges [][2]*tiles.TileID, queue chan<- *tiles.TileID) error {
	defer close(queue)

	for _, r := range ranges {
		minTile, maxTile := r[0], r[1]
		for x := minTile.X; x <= maxTile.X; x++ {
			for y := minTile.Y; y <= maxTile.Y; y++ {
				select {
				case queue <- tiles.NewTileID(minTile.Zoom, x, y):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return nil
}

type tileCounter interface {
	Incr() bool
}

type noopCounter struct{}

func (noopCounter) Incr() bool { return true }

func createCounters(ranges [][2]*tiles.TileID) map[uint8]tileCounter {
	counters := make(map[uint8]tileCounter, len(ranges))
	if !showProgress {
		for _, r := range ranges {
			counters[r[0].Zoom] = noopCounter{}
		}
		return counters
	}

	uiprogress.Start()
	for _, r := range ranges {
		z := r[0].Zoom
		count := tiles.Count(r[0], r[1])
		bar := uiprogress.AddBar(count).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return fmt.Sprintf("zoom %2v (%8v/%8v)", z, b.Current(), count)
		})
		counters[z] = bar
	}
	return counters
}

func create(cmd *cobra.Command, address string, outfilename string) error {
	// set defaults
	if tilesetName == "" {
		base := path.Base(address)
		tilesetName = strings.TrimSuffix(base, filepath.Ext(base))
	}

	values, err := parseKeyValues(createOptions)
	if err != nil {
		return err
	}
	opts, err := tiler.ParseTileOptions(values)
	if err != nil {
		return err
	}
	opts.TileSize = tileSize
	if err := opts.Validate(); err != nil {
		return err
	}

	statsOpts := tiler.DefaultStatsOptions()
	statsOpts.Indexes = opts.Indexes
	statsOpts.Nodata = opts.Nodata
	statsOpts.TileSize = tileSize
	statsOpts.BoundsCRS = "EPSG:4326"

	metadata, err := tl.Metadata(address, statsOpts)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("minzoom") {
		minzoom = metadata.MinZoom
	}
	if !cmd.Flags().Changed("maxzoom") {
		maxzoom = metadata.MaxZoom
	}
	if maxzoom < minzoom {
		return errors.New("maxzoom must be no smaller than minzoom")
	}
	scheme := tl.Config().Scheme
	if maxzoom > scheme.MaxZoom() {
		return fmt.Errorf("maxzoom must be no greater than %d", scheme.MaxZoom())
	}

	r, err := newRenderer(colormap, ramp, len(metadata.Statistics))
	if err != nil {
		return err
	}
	if rescale != "" {
		if r.rescale, err = parseRescale(rescale); err != nil {
			return err
		}
	} else if !r.direct {
		r.ranges = make(map[int][2]float64, len(metadata.Statistics))
		for band, s := range metadata.Statistics {
			if s.Count > 0 {
				r.ranges[band] = s.Percentiles
			}
		}
	}

	displayBounds, err := tl.DisplayBounds(address)
	if err != nil {
		return err
	}
	ranges := zoomRanges(scheme, displayBounds, minzoom, maxzoom)

	db, err := createArchive(outfilename, numWorkers, archiveMetadata{
		Name:        tilesetName,
		Description: description,
		MinZoom:     minzoom,
		MaxZoom:     maxzoom,
		Bounds:      affine.NewBounds(metadata.Bounds),
	})
	if err != nil {
		return err
	}

	logger.Info("creating tiles", "address", address, "filename", outfilename, "minzoom", minzoom, "maxzoom", maxzoom, "workers", numWorkers)

	counters := createCounters(ranges)
	written, err := render(cmd.Context(), address, opts, r, db, ranges, counters)
	if showProgress {
		uiprogress.Stop()
	}

	if closeErr := db.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	logger.Info("created tiles", "filename", outfilename, "tiles", written)
	return nil
}

// render reads, encodes and writes every tile in ranges using numWorkers
// workers.  Tiles outside the dataset, or without valid pixels, are skipped.
func render(ctx context.Context, address string, opts tiler.TileOptions, r *renderer, db archive, ranges [][2]*tiles.TileID, counters map[uint8]tileCounter) (int64, error) {
	queue := make(chan *tiles.TileID)
	results := make(chan int64, numWorkers)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return produce(ctx, ranges, queue)
	})

	for i := 0; i < numWorkers; i++ {
		g.Go(func() error {
			var written int64
			defer func() { results <- written }()

			for tile := range queue {
				result, err := tl.Tile(address, int(tile.Zoom), int(tile.X), int(tile.Y), opts)
				switch {
				case errors.Is(err, tiler.ErrTileOutsideBounds):
					counters[tile.Zoom].Incr()
					continue
				case errors.Is(err, tiler.ErrEmptyWindow):
					// dataset is smaller than a pixel at this zoom
					logger.Debug("skipping tile without dataset pixels", "tile", tile.Path())
					counters[tile.Zoom].Incr()
					continue
				case err != nil:
					return fmt.Errorf("could not read tile %v: %w", tile, err)
				}

				if result.NoneValid() {
					counters[tile.Zoom].Incr()
					continue
				}

				png, err := r.render(result)
				if err != nil {
					return fmt.Errorf("could not encode tile %v: %w", tile, err)
				}
				if err := db.WriteTile(tile, png); err != nil {
					return err
				}
				written++
				counters[tile.Zoom].Incr()
			}
			return nil
		})
	}

	err := g.Wait()
	close(results)

	var total int64
	for written := range results {
		total += written
	}
	return total, err
}
