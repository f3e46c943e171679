package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Histogram struct {
	Counts []int     `json:"counts"`
	Edges  []float64 `json:"edges"`
}

// BandStats summarizes the valid values of a band
type BandStats struct {
	Min         float64    `json:"min"`
	Max         float64    `json:"max"`
	Mean        float64    `json:"mean"`
	Std         float64    `json:"std"`
	Count       int        `json:"count"`
	Histogram   Histogram  `json:"histogram"`
	Percentiles [2]float64 `json:"percentiles"`
}

type Options struct {
	// Bins is the number of equal width histogram bins
	Bins int
	// Range of the histogram; defaults to the min and max of the values
	Range *[2]float64
	// Percentiles to report, in 0..100
	Percentiles [2]float64
}

func (o Options) Validate() error {
	if o.Bins <= 0 {
		return fmt.Errorf("histogram bins must be > 0, got %d", o.Bins)
	}
	if o.Range != nil && !(o.Range[0] < o.Range[1]) {
		return fmt.Errorf("histogram range must be increasing, got %v", *o.Range)
	}
	for _, p := range o.Percentiles {
		if math.IsNaN(p) || p < 0 || p > 100 {
			return fmt.Errorf("percentile must be in 0..100, got %v", p)
		}
	}
	if o.Percentiles[0] > o.Percentiles[1] {
		return fmt.Errorf("lower percentile %v is greater than upper percentile %v", o.Percentiles[0], o.Percentiles[1])
	}
	return nil
}

// Valid returns the values that are not NaN and, if hasNodata, not equal to
// nodata.
func Valid(values []float64, nodata float64, hasNodata bool) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || (hasNodata && v == nodata) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Summarize calculates statistics for values; NaN values are ignored.
// A band without values returns zero statistics with Count 0.
func Summarize(values []float64, opts Options) (*BandStats, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	sorted := Valid(values, 0, false)
	if len(sorted) == 0 {
		return &BandStats{
			Histogram: Histogram{
				Counts: make([]int, opts.Bins),
				Edges:  make([]float64, opts.Bins+1),
			},
		}, nil
	}
	sort.Float64s(sorted)

	n := len(sorted)
	mean, variance := stat.MeanVariance(sorted, nil)
	if n > 1 {
		// population variance
		variance = variance * float64(n-1) / float64(n)
	} else {
		variance = 0
	}

	return &BandStats{
		Min:       floats.Min(sorted),
		Max:       floats.Max(sorted),
		Mean:      mean,
		Std:       math.Sqrt(variance),
		Count:     n,
		Histogram: histogram(sorted, opts.Bins, opts.Range),
		Percentiles: [2]float64{
			Percentile(sorted, opts.Percentiles[0]),
			Percentile(sorted, opts.Percentiles[1]),
		},
	}, nil
}

// histogram counts sorted values into equal width bins.  Every bin is
// half-open except the last, which includes its right edge.  Values outside
// of the range are not counted.
func histogram(sorted []float64, bins int, rng *[2]float64) Histogram {
	var lo, hi float64
	if rng != nil {
		lo, hi = rng[0], rng[1]
	} else {
		lo, hi = sorted[0], sorted[len(sorted)-1]
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	edges := floats.Span(make([]float64, bins+1), lo, hi)
	edges[bins] = hi

	start := sort.SearchFloat64s(sorted, lo)
	end := sort.Search(len(sorted), func(i int) bool { return sorted[i] > hi })

	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted[start:end], nil)

	out := Histogram{
		Counts: make([]int, bins),
		Edges:  edges,
	}
	for i, c := range counts {
		out.Counts[i] = int(c)
	}
	return out
}

// Percentile of sorted values, linearly interpolated between the closest
// ranks.  p is in 0..100.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(rank-float64(lo))
}
