package raster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResampling(t *testing.T) {
	for i, name := range resamplingNames {
		r, err := ParseResampling(name)
		require.NoError(t, err)
		assert.Equal(t, Resampling(i), r)
		assert.Equal(t, name, r.String())
	}

	_, err := ParseResampling("sharpest")
	assert.Error(t, err)
	assert.False(t, Resampling(42).Valid())
}

func TestDataTypeCast(t *testing.T) {
	tests := []struct {
		dtype    DataType
		value    float64
		expected float64
	}{
		{Uint8, 300, 255},
		{Uint8, -4, 0},
		{Uint8, 1.6, 2},
		{Int16, -40000, math.MinInt16},
		{Int32, 2.4, 2},
		{Float64, 1.23456789, 1.23456789},
		{Float32, 0.1, float64(float32(0.1))},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, tc.dtype.Cast(tc.value), "%v(%v)", tc.dtype, tc.value)
	}

	assert.Equal(t, 0.0, Uint8.Cast(math.NaN()))
	assert.True(t, math.IsNaN(Float32.Cast(math.NaN())))
}

func TestParseDataType(t *testing.T) {
	d, err := ParseDataType("Float32")
	require.NoError(t, err)
	assert.Equal(t, Float32, d)

	_, err = ParseDataType("unknown")
	assert.Error(t, err)
	_, err = ParseDataType("complex64")
	assert.Error(t, err)
}

func TestIndexes(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, Indexes(3))
}
