package eval

import (
	"math"
	"testing"
)

// thresholdModel predicts from feature 0 alone: class 1 iff x[0] > 0.5.
type thresholdModel struct{}

func (thresholdModel) Fit(X [][]float64, y []int, nClasses int) error { return nil }

func (thresholdModel) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i, row := range X {
		if row[0] > 0.5 {
			out[i] = 1
		}
	}
	return out
}

func (thresholdModel) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, c := range (thresholdModel{}).Predict(X) {
		p := []float64{1, 0}
		if c == 1 {
			p = []float64{0, 1}
		}
		out[i] = p
	}
	return out
}

func importanceFixture() ([][]float64, []int) {
	var X [][]float64
	var y []int
	for i := 0; i < 20; i++ {
		c := i % 2
		X = append(X, []float64{float64(c), 0.5}) // col 1 is constant
		y = append(y, c)
	}
	return X, y
}

func TestPermutationImportance(t *testing.T) {
	X, y := importanceFixture()
	imps, err := PermutationImportance(thresholdModel{}, X, y, []string{"signal", "constant"}, 42)
	if err != nil {
		t.Fatalf("PermutationImportance: %v", err)
	}
	if len(imps) != 2 {
		t.Fatalf("got %d importances, want 2", len(imps))
	}
	if imps[0].Feature != "signal" {
		t.Fatalf("top feature = %q, want signal", imps[0].Feature)
	}
	if imps[0].Drop <= 0.2 {
		t.Fatalf("signal drop = %v, want a substantial accuracy loss", imps[0].Drop)
	}
	for _, im := range imps {
		if im.Feature == "constant" && math.Abs(im.Drop) > 1e-12 {
			t.Fatalf("constant column drop = %v, want 0", im.Drop)
		}
	}
}

func TestPermutationImportanceDeterministic(t *testing.T) {
	X, y := importanceFixture()
	first, err := PermutationImportance(thresholdModel{}, X, y, []string{"signal", "constant"}, 42)
	if err != nil {
		t.Fatalf("PermutationImportance: %v", err)
	}
	second, err := PermutationImportance(thresholdModel{}, X, y, []string{"signal", "constant"}, 42)
	if err != nil {
		t.Fatalf("PermutationImportance: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("run differs at %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestPermutationImportanceRejectsZeroSeed(t *testing.T) {
	X, y := importanceFixture()
	if _, err := PermutationImportance(thresholdModel{}, X, y, []string{"a", "b"}, 0); err == nil {
		t.Fatal("expected error for zero seed")
	}
}

func TestPermutationImportanceNameMismatch(t *testing.T) {
	X, y := importanceFixture()
	if _, err := PermutationImportance(thresholdModel{}, X, y, []string{"only-one"}, 42); err == nil {
		t.Fatal("expected error for name/width mismatch")
	}
}
