package model

import (
	"errors"
	"fmt"

	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/resample"
)

// ForestGrid is the hyperparameter grid searched for the random forest.
type ForestGrid struct {
	Mtry    []int
	MinNode []int
}

// ForestParams is one point of the forest grid.
type ForestParams struct {
	Mtry    int
	MinNode int
}

// TuneEntry records the mean out-of-bag accuracy of one candidate.
type TuneEntry struct {
	Params       string
	MeanAccuracy float64
}

// TuneForest grid-searches (mtry, min node size) over the given bootstrap
// resamples: each candidate is fit on every in-bag set and scored on the
// matching out-of-bag rows, and the candidate with the highest mean accuracy
// wins (first in grid order on ties). Tree count stays fixed across the grid.
func TuneForest(X [][]float64, y []int, nClasses, trees int, grid ForestGrid, boots []resample.Bootstrap, seed int64) (ForestParams, []TuneEntry, error) {
	if len(boots) == 0 {
		return ForestParams{}, nil, errors.New("model: no bootstrap resamples to tune on")
	}
	if seed == 0 {
		return ForestParams{}, nil, errors.New("model: seed must be non-zero")
	}

	var history []TuneEntry
	best := ForestParams{}
	bestAcc := -1.0
	for _, mtry := range grid.Mtry {
		for _, minNode := range grid.MinNode {
			acc, err := meanResampleAccuracy(X, y, nClasses, boots, func() Classifier {
				return NewRandomForest(
					ForestTrees(trees),
					ForestMtry(mtry),
					ForestMinNodeSize(minNode),
					ForestSeed(seed),
				)
			})
			if err != nil {
				return ForestParams{}, nil, err
			}
			history = append(history, TuneEntry{
				Params:       fmt.Sprintf("mtry=%d min_n=%d", mtry, minNode),
				MeanAccuracy: acc,
			})
			if acc > bestAcc {
				bestAcc = acc
				best = ForestParams{Mtry: mtry, MinNode: minNode}
			}
		}
	}
	return best, history, nil
}

// TuneKNN grid-searches the neighbor count the same way.
func TuneKNN(X [][]float64, y []int, nClasses int, kGrid []int, boots []resample.Bootstrap) (int, []TuneEntry, error) {
	if len(boots) == 0 {
		return 0, nil, errors.New("model: no bootstrap resamples to tune on")
	}

	var history []TuneEntry
	bestK := 0
	bestAcc := -1.0
	for _, k := range kGrid {
		acc, err := meanResampleAccuracy(X, y, nClasses, boots, func() Classifier {
			return NewKNN(k)
		})
		if err != nil {
			return 0, nil, err
		}
		history = append(history, TuneEntry{
			Params:       fmt.Sprintf("k=%d", k),
			MeanAccuracy: acc,
		})
		if acc > bestAcc {
			bestAcc = acc
			bestK = k
		}
	}
	return bestK, history, nil
}

// meanResampleAccuracy fits a fresh classifier per resample and averages the
// out-of-bag accuracy. Resamples whose out-of-bag set came up empty are
// skipped; at least one must score.
func meanResampleAccuracy(X [][]float64, y []int, nClasses int, boots []resample.Bootstrap, build func() Classifier) (float64, error) {
	sum := 0.0
	scored := 0
	for _, b := range boots {
		if len(b.OutOfBag) == 0 {
			continue
		}
		clf := build()
		if err := clf.Fit(subsetRows(X, b.InBag), subsetInts(y, b.InBag), nClasses); err != nil {
			return 0, fmt.Errorf("model: resample fit: %w", err)
		}
		pred := clf.Predict(subsetRows(X, b.OutOfBag))
		sum += Accuracy(subsetInts(y, b.OutOfBag), pred)
		scored++
	}
	if scored == 0 {
		return 0, errors.New("model: every resample had an empty out-of-bag set")
	}
	return sum / float64(scored), nil
}

func subsetRows(X [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = X[j]
	}
	return out
}

func subsetInts(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}
