package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// parseKeyValues parses key=value pairs
func parseKeyValues(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid option %q, expected key=value", pair)
		}
		values[key] = strings.TrimSpace(value)
	}
	return values, nil
}

// parseRescale parses "min,max" into a range applied to every band
func parseRescale(value string) (*[2]float64, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid rescale %q, expected min,max", value)
	}
	var out [2]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid rescale %q: %w", value, err)
		}
		out[i] = v
	}
	if out[0] >= out[1] {
		return nil, fmt.Errorf("invalid rescale %q, min must be less than max", value)
	}
	return &out, nil
}

func parseTileArgs(args []string) (z int, x int, y int, err error) {
	values := make([]int, 3)
	for i, name := range []string{"z", "x", "y"} {
		values[i], err = strconv.Atoi(args[i])
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid %s %q: %w", name, args[i], err)
		}
	}
	return values[0], values[1], values[2], nil
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
