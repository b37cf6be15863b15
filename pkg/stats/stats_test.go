package stats

import (
	"math"
	"testing"
)

func TestMeanStd(t *testing.T) {
	mean, std := MeanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if mean != 5 {
		t.Fatalf("mean = %v, want 5", mean)
	}
	if std != 2 { // classic population-stddev example
		t.Fatalf("std = %v, want 2", std)
	}
	if m, s := MeanStd(nil); m != 0 || s != 0 {
		t.Fatalf("empty input: got %v,%v", m, s)
	}
}

func TestPercentileBoundsAndOrder(t *testing.T) {
	x := []float64{9, 1, 5, 3, 7}
	if got := Percentile(x, 0); got != 1 {
		t.Fatalf("p0 = %v, want min", got)
	}
	if got := Percentile(x, 100); got != 9 {
		t.Fatalf("p100 = %v, want max", got)
	}
	if got := Percentile(x, 50); got != 5 {
		t.Fatalf("p50 = %v, want 5", got)
	}
	p10, p90 := Percentile(x, 10), Percentile(x, 90)
	if p10 < 1 || p90 > 9 || p10 >= p90 {
		t.Fatalf("p10=%v p90=%v out of order", p10, p90)
	}
	// input must stay untouched
	if x[0] != 9 || x[4] != 7 {
		t.Fatalf("Percentile reordered its input: %v", x)
	}
}

func TestCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	if r := Correlation(x, []float64{2, 4, 6, 8}); math.Abs(r-1) > 1e-12 {
		t.Fatalf("perfect positive: r = %v", r)
	}
	if r := Correlation(x, []float64{8, 6, 4, 2}); math.Abs(r+1) > 1e-12 {
		t.Fatalf("perfect negative: r = %v", r)
	}
	if r := Correlation(x, []float64{3, 3, 3, 3}); r != 0 {
		t.Fatalf("zero-variance column: r = %v, want 0", r)
	}
	if r := Correlation(nil, nil); r != 0 {
		t.Fatalf("empty input: r = %v, want 0", r)
	}
}
