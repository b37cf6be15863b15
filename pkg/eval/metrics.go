// Package eval computes the report's numbers: accuracy, macro one-vs-rest
// AUC, the confusion matrix with per-class recall, the prediction-confidence
// distribution and permutation importance.
package eval

import (
	"errors"
	"sort"

	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/model"
	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/stats"
)

// ConfusionMatrix counts (true, predicted) pairs. Rows are true labels.
type ConfusionMatrix struct {
	Labels []string
	Counts [][]int
}

// Recall returns diagonal / row sum for the i-th label, 0 for an empty row.
func (cm *ConfusionMatrix) Recall(i int) float64 {
	total := 0
	for _, c := range cm.Counts[i] {
		total += c
	}
	if total == 0 {
		return 0
	}
	return float64(cm.Counts[i][i]) / float64(total)
}

// RowSum returns the number of test rows with the i-th true label.
func (cm *ConfusionMatrix) RowSum(i int) int {
	total := 0
	for _, c := range cm.Counts[i] {
		total += c
	}
	return total
}

// ConfidenceSummary describes the distribution of per-row maximum predicted
// probability.
type ConfidenceSummary struct {
	Mean   float64
	Median float64
	P25    float64
	P75    float64
}

// Evaluation bundles every test-set metric for one model.
type Evaluation struct {
	Accuracy   float64
	AUC        float64
	Confusion  *ConfusionMatrix
	Confidence ConfidenceSummary
}

// Evaluate scores a fitted classifier on held-out rows.
func Evaluate(clf model.Classifier, X [][]float64, y []int, labels *model.LabelIndex) (Evaluation, error) {
	if len(X) == 0 || len(X) != len(y) {
		return Evaluation{}, errors.New("eval: X and y must be non-empty and aligned")
	}

	probas := clf.PredictProba(X)
	preds := make([]int, len(probas))
	conf := make([]float64, len(probas))
	for i, p := range probas {
		best := 0
		for c := 1; c < len(p); c++ {
			if p[c] > p[best] {
				best = c
			}
		}
		preds[i] = best
		conf[i] = p[best]
	}

	cm := &ConfusionMatrix{Labels: labels.Names}
	cm.Counts = make([][]int, labels.Len())
	for i := range cm.Counts {
		cm.Counts[i] = make([]int, labels.Len())
	}
	for i := range y {
		cm.Counts[y[i]][preds[i]]++
	}

	return Evaluation{
		Accuracy:  model.Accuracy(y, preds),
		AUC:       MacroAUC(probas, y, labels.Len()),
		Confusion: cm,
		Confidence: ConfidenceSummary{
			Mean:   stats.Mean(conf),
			Median: stats.Percentile(conf, 50),
			P25:    stats.Percentile(conf, 25),
			P75:    stats.Percentile(conf, 75),
		},
	}, nil
}

// MacroAUC is the one-vs-rest ROC AUC averaged over classes. Per class it is
// the Mann-Whitney statistic over that class's predicted probability, with
// average ranks on ties; classes absent from y are skipped.
func MacroAUC(probas [][]float64, y []int, nClasses int) float64 {
	sum := 0.0
	counted := 0
	for c := 0; c < nClasses; c++ {
		scores := make([]float64, len(probas))
		pos := make([]bool, len(probas))
		nPos := 0
		for i := range probas {
			scores[i] = probas[i][c]
			if y[i] == c {
				pos[i] = true
				nPos++
			}
		}
		nNeg := len(y) - nPos
		if nPos == 0 || nNeg == 0 {
			continue
		}
		sum += binaryAUC(scores, pos, nPos, nNeg)
		counted++
	}
	if counted == 0 {
		return 0
	}
	return sum / float64(counted)
}

func binaryAUC(scores []float64, pos []bool, nPos, nNeg int) float64 {
	type item struct {
		s float64
		p bool
	}
	items := make([]item, len(scores))
	for i := range scores {
		items[i] = item{scores[i], pos[i]}
	}
	sort.Slice(items, func(a, b int) bool { return items[a].s < items[b].s })

	// rank sum of positives, average rank across score ties
	rankSum := 0.0
	i := 0
	for i < len(items) {
		j := i
		for j < len(items) && items[j].s == items[i].s {
			j++
		}
		avgRank := float64(i+j+1) / 2.0 // ranks are 1-based
		for k := i; k < j; k++ {
			if items[k].p {
				rankSum += avgRank
			}
		}
		i = j
	}
	u := rankSum - float64(nPos)*float64(nPos+1)/2.0
	return u / (float64(nPos) * float64(nNeg))
}
