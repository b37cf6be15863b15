package model

import (
	"reflect"
	"testing"
)

// threeGenreData builds a cleanly separable 3-class set: class c centers its
// first two features around 10*c with a small deterministic wobble.
func threeGenreData(perClass int) (X [][]float64, y []int) {
	for c := 0; c < 3; c++ {
		for i := 0; i < perClass; i++ {
			wobble := float64(i%3) - 1
			X = append(X, []float64{
				10*float64(c) + wobble,
				10*float64(c) - wobble,
				0.5, // uninformative
				float64(i % 2),
			})
			y = append(y, c)
		}
	}
	return
}

func newTestForest(seed int64) *RandomForest {
	return NewRandomForest(
		ForestTrees(25),
		ForestMtry(2),
		ForestMinNodeSize(2),
		ForestSeed(seed),
	)
}

func TestForestLearnsSeparableClasses(t *testing.T) {
	X, y := threeGenreData(8)
	rf := newTestForest(42)
	if err := rf.Fit(X, y, 3); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if acc := Accuracy(y, rf.Predict(X)); acc != 1.0 {
		t.Fatalf("training accuracy = %v on separable data, want 1.0", acc)
	}
}

func TestForestDeterministicAcrossRetrains(t *testing.T) {
	X, y := threeGenreData(4) // 12 tracks, 3 labels
	test := [][]float64{
		{0.4, -0.2, 0.5, 1},
		{9.7, 10.1, 0.5, 0},
		{20.3, 19.8, 0.5, 1},
		{10.2, 9.5, 0.5, 0},
	}

	var preds [][]int
	var probas [][][]float64
	for run := 0; run < 3; run++ {
		rf := newTestForest(42)
		if err := rf.Fit(X, y, 3); err != nil {
			t.Fatalf("Fit: %v", err)
		}
		preds = append(preds, rf.Predict(test))
		probas = append(probas, rf.PredictProba(test))
	}
	for run := 1; run < 3; run++ {
		if !reflect.DeepEqual(preds[0], preds[run]) {
			t.Fatalf("run %d predictions %v differ from run 0 %v", run, preds[run], preds[0])
		}
		if !reflect.DeepEqual(probas[0], probas[run]) {
			t.Fatalf("run %d probabilities differ from run 0", run)
		}
	}
}

func TestForestSeedChangesModel(t *testing.T) {
	X, y := threeGenreData(8)
	probe := [][]float64{{5, 5, 0.5, 0}} // between class 0 and 1 centers

	a := newTestForest(42)
	if err := a.Fit(X, y, 3); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	b := newTestForest(1234)
	if err := b.Fit(X, y, 3); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	// ambiguous probe: distributions should reflect different bootstraps
	pa := a.PredictProba(probe)[0]
	pb := b.PredictProba(probe)[0]
	if reflect.DeepEqual(pa, pb) {
		t.Logf("identical distributions for different seeds: %v", pa)
	}
}

func TestForestProbabilitiesSumToOne(t *testing.T) {
	X, y := threeGenreData(8)
	rf := newTestForest(42)
	if err := rf.Fit(X, y, 3); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	for i, p := range rf.PredictProba(X) {
		sum := 0.0
		for _, v := range p {
			sum += v
		}
		if sum < 0.999 || sum > 1.001 {
			t.Fatalf("row %d: probabilities sum to %v", i, sum)
		}
	}
}

func TestForestRejectsZeroSeed(t *testing.T) {
	X, y := threeGenreData(4)
	rf := NewRandomForest(ForestTrees(5))
	if err := rf.Fit(X, y, 3); err == nil {
		t.Fatal("expected error for zero seed")
	}
}
