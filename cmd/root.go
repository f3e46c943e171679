package cmd

import (
	"context"
	"log/slog"

	"github.com/brendan-ward/geotiler/tiler"
	"github.com/spf13/cobra"
)

var VERSION = "0.1.0"

const appName = "geotiler"

var configFile string

// set by rootCmd before any subcommand runs
var (
	logger *slog.Logger
	tl     *tiler.Tiler
)

var v = newViper()

// persistent flags that override config file and environment values
var boundFlags = []string{"display-crs", "bounds-crs", "densify-points", "warp", "warp-resampling", "log-level", "log-format"}

var rootCmd = &cobra.Command{
	Use:     appName,
	Short:   "Read bounds, metadata and map tiles from GeoTIFF and other GDAL rasters",
	Version: VERSION,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(v, configFile)
		if err != nil {
			return err
		}
		logger = createLogger(cfg, cmd.ErrOrStderr())
		slog.SetDefault(logger)

		tl, err = newTiler(cfg, logger)
		return err
	},
	SilenceUsage: true,
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (YAML, TOML or JSON)")
	flags.String("display-crs", "EPSG:3857", "CRS of tiles")
	flags.String("bounds-crs", "", "CRS of reported bounds (default: display CRS)")
	flags.Int("densify-points", 21, "points added to each edge when reprojecting bounds")
	flags.Bool("warp", false, "warp datasets to the display CRS before reading")
	flags.String("warp-resampling", "nearest", "resampling method used when warping")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("log-format", "text", "log format: text or json")

	for _, name := range boundFlags {
		if err := v.BindPFlag(flagKey(name), flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(boundsCmd)
	rootCmd.AddCommand(metadataCmd)
	rootCmd.AddCommand(tileCmd)
	rootCmd.AddCommand(createCmd)
}
