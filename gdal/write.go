package gdal

// #include <stdlib.h>
// #include "gdal.h"
import "C"
import (
	"fmt"
	"unsafe"

	"github.com/brendan-ward/geotiler/affine"
	"github.com/brendan-ward/geotiler/raster"
)

// WriteGeoTIFF writes band-sequential width x height buffers to a GeoTIFF
// of type dtype.  If mask is not nil, it is written as an internal dataset
// mask (0 = invalid, 255 = valid).
func WriteGeoTIFF(filename string, bands [][]float64, width int, height int, transform *affine.Affine, crs string, dtype raster.DataType, nodata *float64, mask []uint8) error {
	if len(bands) == 0 {
		return fmt.Errorf("no bands to write")
	}
	size := width * height
	for i, band := range bands {
		if len(band) != size {
			return fmt.Errorf("band %d has %d values, expected %d", i+1, len(band), size)
		}
	}
	if mask != nil && len(mask) != size {
		return fmt.Errorf("mask has %d values, expected %d", len(mask), size)
	}

	dataType, ok := gdalDataTypes[dtype]
	if !ok {
		return fmt.Errorf("data type %v is not supported for writing", dtype)
	}

	driverName := C.CString("GTiff")
	defer C.free(unsafe.Pointer(driverName))

	cFilename := C.CString(filename)
	defer C.free(unsafe.Pointer(cFilename))

	// set sensible default options
	options := []string{
		"TILED=YES",
		"BLOCKXSIZE=256",
		"BLOCKYSIZE=256",
		"COMPRESS=lzw",
	}
	if dtype == raster.Int8 {
		options = append(options, "PIXELTYPE=SIGNEDBYTE")
	}
	if len(bands) > 1 {
		options = append(options, "INTERLEAVE=PIXEL")
	}

	// create a null-terminated C string array
	length := len(options)
	gdalOpts := make([]*C.char, length+1)
	for i := 0; i < len(options); i++ {
		gdalOpts[i] = C.CString(options[i])
		defer C.free(unsafe.Pointer(gdalOpts[i]))
	}
	gdalOpts[length] = (*C.char)(unsafe.Pointer(nil))

	ptr := C.GDALCreate(
		C.GDALGetDriverByName(driverName),
		cFilename,
		C.int(width),
		C.int(height),
		C.int(len(bands)),
		dataType,
		(**C.char)(unsafe.Pointer(&gdalOpts[0])),
	)
	if unsafe.Pointer(ptr) == nil {
		return fmt.Errorf("could not open dataset for writing: %v", filename)
	}
	defer C.GDALClose(ptr)

	if crs != "" {
		wkt, err := toWKT(crs)
		if err != nil {
			return err
		}
		outCRS := C.CString(wkt)
		defer C.free(unsafe.Pointer(outCRS))
		if C.GDALSetProjection(ptr, outCRS) != C.CE_None {
			return fmt.Errorf("could not set CRS")
		}
	}

	gdalTransform := transform.ToGDAL()
	if C.GDALSetGeoTransform(
		ptr,
		(*C.double)(unsafe.Pointer(&gdalTransform[0])),
	) != C.CE_None {
		return fmt.Errorf("could not set transform")
	}

	for i, values := range bands {
		band := C.GDALGetRasterBand(ptr, C.int(i+1))
		if unsafe.Pointer(band) == nil {
			return fmt.Errorf("could not get raster band %d", i+1)
		}

		if nodata != nil {
			if C.GDALSetRasterNoDataValue(band, C.double(*nodata)) != C.CE_None {
				return fmt.Errorf("could not set NODATA")
			}
		}

		// GDAL converts from float64 to the band data type
		if C.GDALRasterIO(
			band,
			C.GF_Write,
			0,
			0,
			C.int(width),
			C.int(height),
			unsafe.Pointer(&values[0]),
			C.int(width),
			C.int(height),
			C.GDT_Float64,
			0, // pixel spacing
			0, // line spacing
		) != C.CE_None {
			return fmt.Errorf("could not write data for band %d", i+1)
		}
	}

	if mask != nil {
		if C.GDALCreateDatasetMaskBand(ptr, C.GMF_PER_DATASET) != C.CE_None {
			return fmt.Errorf("could not create mask band")
		}
		maskBand := C.GDALGetMaskBand(C.GDALGetRasterBand(ptr, 1))
		if C.GDALRasterIO(
			maskBand,
			C.GF_Write,
			0,
			0,
			C.int(width),
			C.int(height),
			unsafe.Pointer(&mask[0]),
			C.int(width),
			C.int(height),
			C.GDT_Byte,
			0,
			0,
		) != C.CE_None {
			return fmt.Errorf("could not write mask")
		}
	}

	return nil
}
