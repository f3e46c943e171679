package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyValues(t *testing.T) {
	values, err := parseKeyValues([]string{"indexes=1,2", " nodata = -9999", "dtype="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"indexes": "1,2", "nodata": "-9999", "dtype": ""}, values)

	for _, pair := range []string{"indexes", "=1"} {
		_, err := parseKeyValues([]string{pair})
		assert.Error(t, err, pair)
	}
}

func TestParseRescale(t *testing.T) {
	rng, err := parseRescale("0, 100.5")
	require.NoError(t, err)
	assert.Equal(t, [2]float64{0, 100.5}, *rng)

	for _, value := range []string{"", "1", "1,2,3", "a,1", "5,5", "10,0"} {
		_, err := parseRescale(value)
		assert.Error(t, err, value)
	}
}

func TestParseTileArgs(t *testing.T) {
	z, x, y, err := parseTileArgs([]string{"3", "2", "1"})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1}, []int{z, x, y})

	_, _, _, err = parseTileArgs([]string{"3", "two", "1"})
	assert.ErrorContains(t, err, "invalid x")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestFlagKey(t *testing.T) {
	assert.Equal(t, "display_crs", flagKey("display-crs"))
}
