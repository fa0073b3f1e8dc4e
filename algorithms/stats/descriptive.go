package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Descriptive statistics shared by the daily aggregators. Empty input
// yields NaN so downstream tables can render nulls.

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return math.NaN()
	}
	return math.Sqrt(stat.Variance(data, nil))
}

// PopStdDev calculates the population standard deviation
func PopStdDev(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	mean := stat.Mean(data, nil)
	sum := 0.0
	for _, v := range data {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(data)))
}

// Quantile calculates the q-th quantile (q between 0 and 1)
func Quantile(data []float64, q float64) float64 {
	if len(data) == 0 || q < 0 || q > 1 {
		return math.NaN()
	}

	// Make a copy and sort
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	return stat.Quantile(q, stat.Empirical, sorted, nil)
}

// Median calculates the 50th percentile
func Median(data []float64) float64 {
	return Quantile(data, 0.5)
}

// Summary holds the descriptive statistics of one metric column
type Summary struct {
	N      int
	Mean   float64
	Std    float64
	Min    float64
	Max    float64
	Median float64
	P10    float64
	P90    float64
}

// Describe computes the full summary of a slice. All statistics are NaN
// for an empty slice; Std is NaN for fewer than two values.
func Describe(data []float64) Summary {
	s := Summary{N: len(data)}
	if len(data) == 0 {
		s.Mean = math.NaN()
		s.Std = math.NaN()
		s.Min = math.NaN()
		s.Max = math.NaN()
		s.Median = math.NaN()
		s.P10 = math.NaN()
		s.P90 = math.NaN()
		return s
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	s.Mean = stat.Mean(sorted, nil)
	s.Std = StdDev(sorted)
	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.P10 = stat.Quantile(0.1, stat.Empirical, sorted, nil)
	s.P90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return s
}

// ClipBounds holds lower/upper clamp values for one metric column
type ClipBounds struct {
	Lower float64
	Upper float64
}

// QuantileBounds computes clamp values at the given quantiles over data
func QuantileBounds(data []float64, lowerQ, upperQ float64) ClipBounds {
	return ClipBounds{
		Lower: Quantile(data, lowerQ),
		Upper: Quantile(data, upperQ),
	}
}

// Clamp returns v limited to the bounds. NaN bounds leave v untouched on
// that side so partially computable bounds still clip what they can.
func (b ClipBounds) Clamp(v float64) float64 {
	if !math.IsNaN(b.Lower) && v < b.Lower {
		return b.Lower
	}
	if !math.IsNaN(b.Upper) && v > b.Upper {
		return b.Upper
	}
	return v
}

// ClampAll applies the bounds to every value, returning a new slice
func (b ClipBounds) ClampAll(data []float64) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = b.Clamp(v)
	}
	return out
}
