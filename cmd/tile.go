package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brendan-ward/geotiler/gdal"
	"github.com/brendan-ward/geotiler/tiler"
	"github.com/spf13/cobra"
)

var (
	tileTileSize int
	tileOptions  []string
	tileRescale  string
	tileColormap string
	tileRamp     string
	tileOut      string
)

var tileCmd = &cobra.Command{
	Use:   "tile [ADDRESS] [Z] [X] [Y]",
	Short: "Write a single tile as PNG or GeoTIFF",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		z, x, y, err := parseTileArgs(args[1:])
		if err != nil {
			return err
		}

		ext := strings.ToLower(filepath.Ext(tileOut))
		if ext != ".png" && ext != ".tif" && ext != ".tiff" {
			return fmt.Errorf("output filename must end in .png, .tif or .tiff")
		}

		values, err := parseKeyValues(tileOptions)
		if err != nil {
			return err
		}
		opts, err := tiler.ParseTileOptions(values)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("tilesize") {
			opts.TileSize = tileTileSize
		}

		result, err := tl.Tile(args[0], z, x, y, opts)
		if errors.Is(err, tiler.ErrTileOutsideBounds) {
			logger.Info("tile does not overlap dataset, nothing written", "tile", fmt.Sprintf("%d/%d/%d", z, x, y))
			return nil
		}
		if err != nil {
			return err
		}

		if ext != ".png" {
			return writeTileGeoTIFF(tileOut, result)
		}

		r, err := newRenderer(tileColormap, tileRamp, len(result.Bands))
		if err != nil {
			return err
		}
		if tileRescale != "" {
			if r.rescale, err = parseRescale(tileRescale); err != nil {
				return err
			}
		}

		png, err := r.render(result)
		if err != nil {
			return err
		}
		if err := os.WriteFile(tileOut, png, 0644); err != nil {
			return err
		}
		logger.Debug("wrote tile", "tile", fmt.Sprintf("%d/%d/%d", z, x, y), "filename", tileOut, "bytes", len(png))
		return nil
	},
}

func writeTileGeoTIFF(filename string, result *tiler.TileResult) error {
	// GeoTIFF holds a single nodata value for all bands
	var nodata *float64
	for _, value := range result.Nodata {
		if value != nil {
			nodata = value
			break
		}
	}
	return gdal.WriteGeoTIFF(filename, result.Data, result.Size, result.Size, result.Transform(), result.CRS, result.DataType, nodata, result.Mask)
}

func init() {
	tileCmd.Flags().IntVarP(&tileTileSize, "tilesize", "s", tiler.DefaultTileSize, "tile size in pixels")
	tileCmd.Flags().StringArrayVarP(&tileOptions, "option", "o", nil, "tile option as key=value, e.g., -o indexes=1,2,3")
	tileCmd.Flags().StringVar(&tileRescale, "rescale", "", "stretch band values from min,max to 0..255")
	tileCmd.Flags().StringVar(&tileColormap, "colormap", "", "colormap of <value>:<hex> entries, e.g., 1:#AABBCC,2:#DDEEFF")
	tileCmd.Flags().StringVar(&tileRamp, "ramp", "", "color ramp of hex colors, e.g., #440154,#21918c,#fde725")
	tileCmd.Flags().StringVar(&tileOut, "out", "tile.png", "output filename (.png, .tif)")
}
