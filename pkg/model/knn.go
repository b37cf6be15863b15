package model

import (
	"errors"
	"runtime"
	"sort"
	"sync"
)

// KNN is a lazy distance-based classifier: Fit stores the training rows,
// prediction votes among the K nearest by squared euclidean distance.
type KNN struct {
	K int

	x        [][]float64
	y        []int
	nClasses int
}

// NewKNN returns a classifier with the given neighbor count.
func NewKNN(k int) *KNN {
	return &KNN{K: k}
}

// Fit stores the training data.
func (m *KNN) Fit(X [][]float64, y []int, nClasses int) error {
	if len(X) == 0 {
		return errors.New("knn: empty training set")
	}
	if len(X) != len(y) {
		return errors.New("knn: X and y length mismatch")
	}
	if m.K < 1 {
		return errors.New("knn: K must be >= 1")
	}
	m.x = X
	m.y = y
	m.nClasses = nClasses
	return nil
}

// Predict returns the argmax class per row.
func (m *KNN) Predict(X [][]float64) []int {
	probas := m.PredictProba(X)
	out := make([]int, len(X))
	for i, p := range probas {
		out[i] = argmaxProba(p)
	}
	return out
}

// PredictProba returns the neighbor vote fractions per class. Rows are
// scored in parallel; each result lands at its own index, so output is
// independent of scheduling.
func (m *KNN) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	if len(X) == 0 {
		return out
	}
	workers := runtime.GOMAXPROCS(0)
	rowsPer := (len(X) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * rowsPer
		end := min(start+rowsPer, len(X))
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				out[i] = m.voteRow(X[i])
			}
		}(start, end)
	}
	wg.Wait()
	return out
}

// voteRow keeps a bounded sorted list of the K nearest training rows.
// Distance ties resolve by training-row index so votes are reproducible.
func (m *KNN) voteRow(xi []float64) []float64 {
	type pair struct {
		d float64
		j int
	}
	k := min(m.K, len(m.x))
	nbrs := make([]pair, 0, k+1)
	less := func(a, b pair) bool {
		if a.d != b.d {
			return a.d < b.d
		}
		return a.j < b.j
	}

	for j, xj := range m.x {
		p := pair{d: euclidSquared(xi, xj), j: j}
		if len(nbrs) < k {
			nbrs = append(nbrs, p)
			sort.Slice(nbrs, func(a, b int) bool { return less(nbrs[a], nbrs[b]) })
		} else if less(p, nbrs[len(nbrs)-1]) {
			nbrs[len(nbrs)-1] = p
			sort.Slice(nbrs, func(a, b int) bool { return less(nbrs[a], nbrs[b]) })
		}
	}

	probs := make([]float64, m.nClasses)
	for _, p := range nbrs {
		probs[m.y[p.j]] += 1.0 / float64(len(nbrs))
	}
	return probs
}

func euclidSquared(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
