package gdal

// #include <stdlib.h>
// #include "ogr_srs_api.h"
// #include "cpl_conv.h"
import "C"
import (
	"fmt"
	"math"
	"unsafe"

	"github.com/brendan-ward/geotiler/crs"
)

// Transformer reprojects coordinates using GDAL / PROJ.  CRS values may be
// anything accepted by OSRSetFromUserInput (EPSG codes, WKT, PROJ strings).
type Transformer struct{}

func newSpatialRef(def string) (C.OGRSpatialReferenceH, error) {
	if def == "" {
		return nil, crs.ErrUndefinedCRS
	}

	cDef := C.CString(def)
	defer C.free(unsafe.Pointer(cDef))

	srs := C.OSRNewSpatialReference(nil)
	if unsafe.Pointer(srs) == nil {
		return nil, fmt.Errorf("could not create spatial reference")
	}
	if C.OSRSetFromUserInput(srs, cDef) != C.OGRERR_NONE {
		C.OSRDestroySpatialReference(srs)
		return nil, fmt.Errorf("%w: %s", crs.ErrUnsupportedCRS, def)
	}
	// make sure that coords are always in long/lat order (otherwise EPSG:4326 is in lat/long order)
	C.OSRSetAxisMappingStrategy(srs, C.OAMS_TRADITIONAL_GIS_ORDER)

	return srs, nil
}

func (Transformer) TransformPoints(src string, dst string, xs []float64, ys []float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("coordinate arrays have different lengths: %d, %d", len(xs), len(ys))
	}
	if len(xs) == 0 {
		return nil
	}

	srcSRS, err := newSpatialRef(src)
	if err != nil {
		return err
	}
	defer C.OSRDestroySpatialReference(srcSRS)

	dstSRS, err := newSpatialRef(dst)
	if err != nil {
		return err
	}
	defer C.OSRDestroySpatialReference(dstSRS)

	transform := C.OCTNewCoordinateTransformation(srcSRS, dstSRS)
	if unsafe.Pointer(transform) == nil {
		return fmt.Errorf("could not create coordinate transform from %s to %s", src, dst)
	}
	defer C.OCTDestroyCoordinateTransformation(transform)

	success := make([]C.int, len(xs))
	C.OCTTransformEx(
		transform,
		C.int(len(xs)),
		(*C.double)(unsafe.Pointer(&xs[0])),
		(*C.double)(unsafe.Pointer(&ys[0])),
		nil,
		&success[0],
	)

	for i, ok := range success {
		if ok == 0 {
			xs[i] = math.NaN()
			ys[i] = math.NaN()
		}
	}

	return nil
}

// toWKT converts a CRS definition to WKT
func toWKT(def string) (string, error) {
	srs, err := newSpatialRef(def)
	if err != nil {
		return "", err
	}
	defer C.OSRDestroySpatialReference(srs)

	var wkt *C.char
	if C.OSRExportToWkt(srs, &wkt) != C.OGRERR_NONE {
		return "", fmt.Errorf("could not export %s to WKT", def)
	}
	defer C.VSIFree(unsafe.Pointer(wkt))

	return C.GoString(wkt), nil
}
