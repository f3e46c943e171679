package gdal

/*
#cgo LDFLAGS: -lgdal
#include <stdlib.h>
#include <math.h>
#include "gdal.h"
#include "gdalwarper.h"
#include "ogr_srs_api.h"

// read a fractional window of the dataset into a band-sequential float64
// buffer, resampling to bufXSize x bufYSize
static CPLErr readWindow(GDALDatasetH ds, double xoff, double yoff, double xsize, double ysize,
                         double *buffer, int bufXSize, int bufYSize, int bandCount, int *bands,
                         int resampling) {
	GDALRasterIOExtraArg extra;
	INIT_RASTERIO_EXTRA_ARG(extra);
	extra.eResampleAlg = (GDALRIOResampleAlg)resampling;
	extra.bFloatingPointWindowValidity = TRUE;
	extra.dfXOff = xoff;
	extra.dfYOff = yoff;
	extra.dfXSize = xsize;
	extra.dfYSize = ysize;

	int width = GDALGetRasterXSize(ds);
	int height = GDALGetRasterYSize(ds);
	int ixoff = (int)floor(xoff);
	int iyoff = (int)floor(yoff);
	int ixend = (int)ceil(xoff + xsize);
	int iyend = (int)ceil(yoff + ysize);
	if (ixoff < 0) ixoff = 0;
	if (iyoff < 0) iyoff = 0;
	if (ixend > width) ixend = width;
	if (iyend > height) iyend = height;
	if (ixend <= ixoff || iyend <= iyoff) {
		return CE_Failure;
	}

	return GDALDatasetRasterIOEx(ds, GF_Read, ixoff, iyoff, ixend - ixoff, iyend - iyoff,
	                             buffer, bufXSize, bufYSize, GDT_Float64, bandCount, bands,
	                             0, 0, 0, &extra);
}
*/
import "C"
import (
	"fmt"
	"math"
	"sort"
	"unsafe"

	"github.com/brendan-ward/geotiler/affine"
	"github.com/brendan-ward/geotiler/raster"
)

var dataTypes = map[C.GDALDataType]raster.DataType{
	C.GDT_Byte:    raster.Uint8,
	C.GDT_UInt16:  raster.Uint16,
	C.GDT_Int16:   raster.Int16,
	C.GDT_UInt32:  raster.Uint32,
	C.GDT_Int32:   raster.Int32,
	C.GDT_Float32: raster.Float32,
	C.GDT_Float64: raster.Float64,
}

// GDAL data type used to store each data type; int8 is stored as a signed
// byte
var gdalDataTypes = map[raster.DataType]C.GDALDataType{
	raster.Uint8:   C.GDT_Byte,
	raster.Int8:    C.GDT_Byte,
	raster.Uint16:  C.GDT_UInt16,
	raster.Int16:   C.GDT_Int16,
	raster.Uint32:  C.GDT_UInt32,
	raster.Int32:   C.GDT_Int32,
	raster.Float32: C.GDT_Float32,
	raster.Float64: C.GDT_Float64,
}

// Dataset is a GDAL dataset opened read-only
type Dataset struct {
	path string
	ptr  C.GDALDatasetH
	// parent is the source of a warped VRT, closed with it
	parent *Dataset
}

const Version string = C.GDAL_RELEASE_NAME

func init() {
	C.GDALAllRegister()
}

func Open(address string) (*Dataset, error) {
	path := VSIPath(address)
	cFilename := C.CString(path)
	defer C.free(unsafe.Pointer(cFilename))

	ptr := C.GDALOpen(cFilename, C.GA_ReadOnly)
	if ptr == nil {
		return nil, fmt.Errorf("could not open dataset: %v", address)
	}
	return &Dataset{
		path: path,
		ptr:  ptr,
	}, nil
}

func (d *Dataset) Close() error {
	if d == nil {
		return nil
	}
	if unsafe.Pointer(d.ptr) != nil {
		C.GDALClose(d.ptr)
	}
	// warped VRTs must be closed before their source
	if d.parent != nil {
		d.parent.Close()
	}
	// clear out previous references
	*d = Dataset{}
	return nil
}

func (d *Dataset) mustBeOpen() {
	if d == nil || unsafe.Pointer(d.ptr) == nil {
		panic("dataset not initialized")
	}
}

// Get the height of the dataset, in number of pixels
func (d *Dataset) Height() int {
	d.mustBeOpen()
	return int(C.GDALGetRasterYSize(d.ptr))
}

// Get the width of the dataset, in number of pixels
func (d *Dataset) Width() int {
	d.mustBeOpen()
	return int(C.GDALGetRasterXSize(d.ptr))
}

// Get the number of bands
func (d *Dataset) Count() int {
	d.mustBeOpen()
	return int(C.GDALGetRasterCount(d.ptr))
}

// Return an Affine tranform object
func (d *Dataset) Transform() (*affine.Affine, error) {
	d.mustBeOpen()

	var transform [6]float64
	if (C.GDALGetGeoTransform(d.ptr, (*C.double)(unsafe.Pointer(&transform[0])))) != C.CE_None {
		return nil, fmt.Errorf("could not get transform for: %v", d.path)
	}
	return affine.FromGDAL(transform), nil
}

// Get nodata value for band (1-based), boolean to indicate if a nodata value is set
func (d *Dataset) Nodata(band int) (float64, bool) {
	d.mustBeOpen()

	if band < 1 || band > d.Count() {
		return 0, false
	}
	ptr := C.GDALGetRasterBand(d.ptr, C.int(band))
	if unsafe.Pointer(ptr) == nil {
		return 0, false
	}

	var hasNodata C.int
	nodata := float64(C.GDALGetRasterNoDataValue(ptr, &hasNodata))

	return nodata, hasNodata != 0
}

// CRS returns the WKT of the dataset CRS; empty if not set
func (d *Dataset) CRS() string {
	d.mustBeOpen()

	return C.GoString(C.GDALGetProjectionRef(d.ptr))
}

// DataType of the first band
func (d *Dataset) DataType() raster.DataType {
	d.mustBeOpen()

	if d.Count() == 0 {
		return raster.Unknown
	}
	return dataTypes[C.GDALGetRasterDataType(C.GDALGetRasterBand(d.ptr, 1))]
}

// Overviews returns the decimation factors of the overviews of the first
// band
func (d *Dataset) Overviews() []int {
	d.mustBeOpen()

	if d.Count() == 0 {
		return nil
	}
	band := C.GDALGetRasterBand(d.ptr, 1)
	count := int(C.GDALGetOverviewCount(band))
	width := float64(d.Width())

	factors := make([]int, 0, count)
	for i := 0; i < count; i++ {
		overview := C.GDALGetOverview(band, C.int(i))
		if unsafe.Pointer(overview) == nil {
			continue
		}
		factors = append(factors, int(math.Round(width/float64(C.GDALGetRasterBandXSize(overview)))))
	}
	sort.Ints(factors)

	return factors
}

func (d *Dataset) String() string {
	if d == nil || unsafe.Pointer(d.ptr) == nil {
		return ""
	}

	driver := C.GoString(C.GDALGetDriverShortName(C.GDALGetDatasetDriver(d.ptr)))
	nodata, hasNodata := d.Nodata(1)
	transform, _ := d.Transform()
	bounds, _ := raster.Bounds(d)
	return fmt.Sprintf("%v (%v: %v, nodata: %v [set: %v])\ndimensions: %v x %v pixels, %v bands\noverviews: %v\ntransform:\n%v\nbounds: %v", d.path, driver, d.DataType(), nodata, hasNodata, d.Width(), d.Height(), d.Count(), d.Overviews(), transform, bounds)
}

// GetWarpedVRT reprojects the dataset on the fly to crs
func (d *Dataset) GetWarpedVRT(crs string, resampling raster.Resampling) (*Dataset, error) {
	d.mustBeOpen()

	wkt, err := toWKT(crs)
	if err != nil {
		return nil, err
	}
	targetSRS := C.CString(wkt)
	defer C.free(unsafe.Pointer(targetSRS))

	vrt := C.GDALAutoCreateWarpedVRT(
		d.ptr,
		C.GDALGetProjectionRef(d.ptr),
		targetSRS,
		warpResampling(resampling),
		0,
		nil,
	)

	if unsafe.Pointer(vrt) == nil {
		return nil, fmt.Errorf("could not create WarpedVRT")
	}

	return &Dataset{
		path:   fmt.Sprintf("WarpedVRT (src: %v)", d.path),
		ptr:    vrt,
		parent: d,
	}, nil
}

// Read a fractional window into one Width x Height buffer per band
func (d *Dataset) Read(req raster.ReadRequest) ([][]float64, error) {
	d.mustBeOpen()

	if req.Width <= 0 || req.Height <= 0 {
		return nil, fmt.Errorf("invalid output size: %d x %d", req.Width, req.Height)
	}
	if req.Window == nil || !req.Window.Finite() {
		return nil, fmt.Errorf("invalid window: %v", req.Window)
	}

	bands := req.Bands
	if len(bands) == 0 {
		bands = raster.Indexes(d.Count())
	}
	cBands := make([]C.int, len(bands))
	for i, band := range bands {
		if band < 1 || band > d.Count() {
			return nil, fmt.Errorf("band index %d out of range 1..%d", band, d.Count())
		}
		cBands[i] = C.int(band)
	}

	size := req.Width * req.Height
	buffer := make([]float64, size*len(bands))

	if C.readWindow(
		d.ptr,
		C.double(req.Window.XOffset),
		C.double(req.Window.YOffset),
		C.double(req.Window.Width),
		C.double(req.Window.Height),
		(*C.double)(unsafe.Pointer(&buffer[0])),
		C.int(req.Width),
		C.int(req.Height),
		C.int(len(bands)),
		&cBands[0],
		C.int(req.Resampling),
	) != C.CE_None {
		return nil, fmt.Errorf("could not read %v from %v", req.Window, d.path)
	}

	out := make([][]float64, len(bands))
	for i := range bands {
		out[i] = buffer[i*size : (i+1)*size]
	}
	return out, nil
}

func warpResampling(r raster.Resampling) C.GDALResampleAlg {
	switch r {
	case raster.Bilinear:
		return C.GRA_Bilinear
	case raster.Cubic:
		return C.GRA_Cubic
	case raster.CubicSpline:
		return C.GRA_CubicSpline
	case raster.Lanczos:
		return C.GRA_Lanczos
	case raster.Average:
		return C.GRA_Average
	case raster.Mode:
		return C.GRA_Mode
	default:
		return C.GRA_NearestNeighbour
	}
}
