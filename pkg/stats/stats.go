// Package stats wraps the handful of scalar statistics the pipeline needs
// around gonum, keeping call sites free of gonum's sorting and cumulant
// bookkeeping.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the average of x, 0 for empty input.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// MeanStd returns the mean and population standard deviation of x.
func MeanStd(x []float64) (mean, std float64) {
	if len(x) == 0 {
		return 0, 0
	}
	mean = stat.Mean(x, nil)
	// population variance: recipes scale by the moment of the data itself,
	// not a sample estimate
	var ss float64
	for _, v := range x {
		d := v - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(x)))
}

// Percentile returns the p-th percentile (0..100) of x with linear
// interpolation between order statistics. x is not modified.
func Percentile(x []float64, p float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	cp := make([]float64, n)
	copy(cp, x)
	sort.Float64s(cp)
	if p <= 0 {
		return cp[0]
	}
	if p >= 100 {
		return cp[n-1]
	}
	return stat.Quantile(p/100, stat.LinInterp, cp, nil)
}

// Correlation returns the Pearson correlation of x and y, 0 when either is
// degenerate.
func Correlation(x, y []float64) float64 {
	if len(x) == 0 || len(x) != len(y) {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if r != r { // NaN from a zero-variance column
		return 0
	}
	return r
}
