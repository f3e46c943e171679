package raster

import (
	"fmt"
	"strings"
)

// Resampling method used when a read window does not match the output size.
// Values match GDAL's GDALRIOResampleAlg.
type Resampling int

const (
	Nearest Resampling = iota
	Bilinear
	Cubic
	CubicSpline
	Lanczos
	Average
	Mode
	Gauss
)

var resamplingNames = [...]string{
	"nearest",
	"bilinear",
	"cubic",
	"cubic_spline",
	"lanczos",
	"average",
	"mode",
	"gauss",
}

func (r Resampling) String() string {
	if r < 0 || int(r) >= len(resamplingNames) {
		return fmt.Sprintf("Resampling(%d)", int(r))
	}
	return resamplingNames[r]
}

// Valid is true if r is a known resampling method
func (r Resampling) Valid() bool {
	return r >= 0 && int(r) < len(resamplingNames)
}

func ParseResampling(name string) (Resampling, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range resamplingNames {
		if n == name {
			return Resampling(i), nil
		}
	}
	return Nearest, fmt.Errorf("unknown resampling method: %q", name)
}
