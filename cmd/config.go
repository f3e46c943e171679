package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/brendan-ward/geotiler/crs"
	"github.com/brendan-ward/geotiler/gdal"
	"github.com/brendan-ward/geotiler/raster"
	"github.com/brendan-ward/geotiler/tiler"
	"github.com/brendan-ward/geotiler/tiles"
	"github.com/spf13/viper"
)

const envPrefix = "GEOTILER"

type config struct {
	DisplayCRS    string
	BoundsCRS     string
	DensifyPoints int
	Warp          bool
	Resampling    raster.Resampling
	LogLevel      string
	LogFormat     string
}

// tile schemes by display CRS
var schemes = map[string]tiles.Scheme{
	"EPSG:3857": tiles.WebMercator,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("display_crs", "EPSG:3857")
	v.SetDefault("bounds_crs", "")
	v.SetDefault("densify_points", crs.DefaultDensifyPoints)
	v.SetDefault("warp", false)
	v.SetDefault("warp_resampling", raster.Nearest.String())
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// newViper creates a viper instance that reads GEOTILER_ prefixed
// environment variables, e.g., GEOTILER_DISPLAY_CRS
func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func loadConfig(v *viper.Viper, configFile string) (config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return config{}, fmt.Errorf("could not read config file %q: %w", configFile, err)
		}
	}

	resampling, err := raster.ParseResampling(v.GetString("warp_resampling"))
	if err != nil {
		return config{}, err
	}

	cfg := config{
		DisplayCRS:    crs.Normalize(v.GetString("display_crs")),
		BoundsCRS:     crs.Normalize(v.GetString("bounds_crs")),
		DensifyPoints: v.GetInt("densify_points"),
		Warp:          v.GetBool("warp"),
		Resampling:    resampling,
		LogLevel:      v.GetString("log_level"),
		LogFormat:     v.GetString("log_format"),
	}

	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json":
	default:
		return cfg, fmt.Errorf("log format must be text or json, got %q", cfg.LogFormat)
	}

	return cfg, nil
}

func (c config) tilerConfig() (tiler.Config, error) {
	scheme, ok := schemes[c.DisplayCRS]
	if !ok {
		return tiler.Config{}, fmt.Errorf("no tile scheme available for display CRS %q", c.DisplayCRS)
	}
	return tiler.Config{
		DisplayCRS:    c.DisplayCRS,
		BoundsCRS:     c.BoundsCRS,
		Scheme:        scheme,
		DensifyPoints: c.DensifyPoints,
	}, nil
}

func createLogger(cfg config, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.LogFormat) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("app", appName)
}

func newTiler(cfg config, logger *slog.Logger) (*tiler.Tiler, error) {
	tilerCfg, err := cfg.tilerConfig()
	if err != nil {
		return nil, err
	}

	opener := gdal.Opener{
		Warp:       cfg.Warp,
		DstCRS:     cfg.DisplayCRS,
		Resampling: cfg.Resampling,
	}

	return tiler.New(tilerCfg, opener, newTransformer(), tiler.WithLogger(logger))
}

// newTransformer reprojects between geographic and Web Mercator coordinates
// in Go, and everything else with GDAL
func newTransformer() crs.Chain {
	return crs.Chain{crs.Builtin{}, gdal.Transformer{}}
}
