package model

import "sort"

// Classifier is a multi-class model over encoded labels 0..nClasses-1.
// Fit is called once; a fitted classifier is only ever read afterwards.
type Classifier interface {
	Fit(X [][]float64, y []int, nClasses int) error
	Predict(X [][]float64) []int
	PredictProba(X [][]float64) [][]float64
}

// LabelIndex maps class names to the dense integer labels the classifiers
// work with. Names are sorted so the encoding does not depend on row order.
type LabelIndex struct {
	Names []string
	index map[string]int
}

// NewLabelIndex builds the index from the observed labels.
func NewLabelIndex(labels []string) *LabelIndex {
	seen := make(map[string]bool, len(labels))
	var names []string
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			names = append(names, l)
		}
	}
	sort.Strings(names)
	idx := make(map[string]int, len(names))
	for i, n := range names {
		idx[n] = i
	}
	return &LabelIndex{Names: names, index: idx}
}

// Encode converts label names to integer classes. Unknown names map to -1.
func (li *LabelIndex) Encode(labels []string) []int {
	out := make([]int, len(labels))
	for i, l := range labels {
		if c, ok := li.index[l]; ok {
			out[i] = c
		} else {
			out[i] = -1
		}
	}
	return out
}

// Len returns the number of classes.
func (li *LabelIndex) Len() int { return len(li.Names) }

// Accuracy is the fraction of matching predictions.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// argmaxProba picks the highest-probability class, lowest index on ties, so
// predictions never depend on goroutine scheduling.
func argmaxProba(p []float64) int {
	best := 0
	for i := 1; i < len(p); i++ {
		if p[i] > p[best] {
			best = i
		}
	}
	return best
}
