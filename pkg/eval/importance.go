package eval

import (
	"errors"
	"math/rand"
	"sort"

	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/model"
)

// Importance is one feature's permutation importance: the accuracy lost when
// that feature's column is shuffled across the evaluation set.
type Importance struct {
	Feature string
	Drop    float64
}

// PermutationImportance scores each feature by re-scoring the fitted model
// with that column shuffled. The shuffle for feature j derives from
// seed + j, so the ranking reproduces exactly for a given seed. An
// uninformative column yields a drop near zero (possibly slightly negative).
func PermutationImportance(clf model.Classifier, X [][]float64, y []int, names []string, seed int64) ([]Importance, error) {
	if seed == 0 {
		return nil, errors.New("eval: seed must be non-zero")
	}
	if len(X) == 0 || len(X) != len(y) {
		return nil, errors.New("eval: X and y must be non-empty and aligned")
	}
	if len(names) != len(X[0]) {
		return nil, errors.New("eval: feature name count does not match X width")
	}

	baseline := model.Accuracy(y, clf.Predict(X))

	out := make([]Importance, len(names))
	for j, name := range names {
		rng := rand.New(rand.NewSource(seed + int64(j)))

		shuffled := make([]float64, len(X))
		for i := range X {
			shuffled[i] = X[i][j]
		}
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		permuted := make([][]float64, len(X))
		for i, row := range X {
			cp := append([]float64(nil), row...)
			cp[j] = shuffled[i]
			permuted[i] = cp
		}

		out[j] = Importance{
			Feature: name,
			Drop:    baseline - model.Accuracy(y, clf.Predict(permuted)),
		}
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].Drop > out[b].Drop })
	return out, nil
}
