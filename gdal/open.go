package gdal

import (
	"strings"

	"github.com/brendan-ward/geotiler/raster"
)

var vsiPrefixes = []struct {
	scheme string
	prefix string
}{
	{"s3://", "/vsis3/"},
	{"gs://", "/vsigs/"},
	{"http://", "/vsicurl/http://"},
	{"https://", "/vsicurl/https://"},
}

// VSIPath maps remote addresses to GDAL virtual file system paths.  Other
// addresses are returned unchanged.
func VSIPath(address string) string {
	for _, p := range vsiPrefixes {
		if strings.HasPrefix(address, p.scheme) {
			return p.prefix + strings.TrimPrefix(address, p.scheme)
		}
	}
	return address
}

// Opener opens GDAL datasets, optionally warped on the fly to DstCRS
type Opener struct {
	Warp       bool
	DstCRS     string
	Resampling raster.Resampling
}

func (o Opener) Open(address string) (raster.Dataset, error) {
	ds, err := Open(address)
	if err != nil {
		return nil, err
	}
	if !o.Warp {
		return ds, nil
	}

	vrt, err := ds.GetWarpedVRT(o.DstCRS, o.Resampling)
	if err != nil {
		ds.Close()
		return nil, err
	}
	return vrt, nil
}
