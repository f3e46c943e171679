package raster

import (
	"fmt"
	"math"
	"strings"
)

// DataType of the values in a raster band
type DataType int

const (
	Unknown DataType = iota
	Uint8
	Int8
	Uint16
	Int16
	Uint32
	Int32
	Float32
	Float64
)

var dtypeNames = [...]string{
	"unknown",
	"uint8",
	"int8",
	"uint16",
	"int16",
	"uint32",
	"int32",
	"float32",
	"float64",
}

func (d DataType) String() string {
	if d < 0 || int(d) >= len(dtypeNames) {
		return fmt.Sprintf("DataType(%d)", int(d))
	}
	return dtypeNames[d]
}

func (d DataType) Valid() bool {
	return d > Unknown && int(d) < len(dtypeNames)
}

func (d DataType) IsInteger() bool {
	return d >= Uint8 && d <= Int32
}

// Range returns the minimum and maximum values representable by d
func (d DataType) Range() (float64, float64) {
	switch d {
	case Uint8:
		return 0, math.MaxUint8
	case Int8:
		return math.MinInt8, math.MaxInt8
	case Uint16:
		return 0, math.MaxUint16
	case Int16:
		return math.MinInt16, math.MaxInt16
	case Uint32:
		return 0, math.MaxUint32
	case Int32:
		return math.MinInt32, math.MaxInt32
	case Float32:
		return -math.MaxFloat32, math.MaxFloat32
	default:
		return math.Inf(-1), math.Inf(1)
	}
}

// Cast converts v to a value representable by d.  Integer types are rounded
// and clamped to their range; NaN is left as-is for float types and becomes
// 0 for integer types.
func (d DataType) Cast(v float64) float64 {
	switch {
	case d.IsInteger():
		if math.IsNaN(v) {
			return 0
		}
		lo, hi := d.Range()
		return math.Min(math.Max(math.Round(v), lo), hi)
	case d == Float32:
		return float64(float32(v))
	default:
		return v
	}
}

func ParseDataType(name string) (DataType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range dtypeNames {
		if i > 0 && n == name {
			return DataType(i), nil
		}
	}
	return Unknown, fmt.Errorf("unknown data type: %q", name)
}
