package model

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"sync"
)

// DecisionTree is a CART-style classifier over dense numeric features.
// Labels are dense ints 0..nClasses-1; leaves hold the class distribution of
// the training rows that reached them.
type DecisionTree struct {
	MaxDepth        int // 0 => no limit
	MinSamplesSplit int
	MinSamplesLeaf  int
	Criterion       string // "gini" (default) or "entropy"
	MaxFeatures     int    // 0 => all features, >0 => sample that many per node
	Seed            int64

	root     *dtNode
	nClasses int
}

type dtNode struct {
	isLeaf    bool
	feature   int
	threshold float64 // x <= threshold goes left
	left      *dtNode
	right     *dtNode

	n      int
	probas []float64
}

// TreeOption is the functional config for DecisionTree.
type TreeOption func(*DecisionTree)

func TreeMaxDepth(d int) TreeOption        { return func(t *DecisionTree) { t.MaxDepth = d } }
func TreeMinSamplesSplit(n int) TreeOption { return func(t *DecisionTree) { t.MinSamplesSplit = n } }
func TreeMinSamplesLeaf(n int) TreeOption  { return func(t *DecisionTree) { t.MinSamplesLeaf = n } }
func TreeCriterion(c string) TreeOption    { return func(t *DecisionTree) { t.Criterion = c } }
func TreeMaxFeatures(k int) TreeOption     { return func(t *DecisionTree) { t.MaxFeatures = k } }
func TreeSeed(seed int64) TreeOption       { return func(t *DecisionTree) { t.Seed = seed } }

// NewDecisionTree returns a tree with the defaults the forest relies on.
func NewDecisionTree(opts ...TreeOption) *DecisionTree {
	t := &DecisionTree{
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Criterion:       "gini",
		Seed:            1,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Fit trains on all rows of X.
func (t *DecisionTree) Fit(X [][]float64, y []int, nClasses int) error {
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	return t.FitIndices(X, y, nClasses, idx)
}

// FitIndices trains on the rows named by idx (repeats allowed). The forest
// passes bootstrap index sets so every tree shares one feature matrix.
func (t *DecisionTree) FitIndices(X [][]float64, y []int, nClasses int, idx []int) error {
	if len(X) == 0 || len(idx) == 0 {
		return errors.New("dtree: empty training set")
	}
	if len(y) != len(X) {
		return errors.New("dtree: X and y length mismatch")
	}
	if nClasses < 2 {
		return errors.New("dtree: need at least 2 classes")
	}
	if t.Seed == 0 {
		return errors.New("dtree: seed must be non-zero")
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return errors.New("dtree: inconsistent feature count across rows")
		}
	}
	t.nClasses = nClasses

	impurity := giniFromCounts
	if t.Criterion == "entropy" {
		impurity = entropyFromCounts
	}
	rnd := rand.New(rand.NewSource(t.Seed))
	own := append([]int(nil), idx...)
	t.root = t.buildNode(X, y, own, 0, p, impurity, rnd)
	return nil
}

// Predict returns the argmax class per row.
func (t *DecisionTree) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i := range X {
		out[i] = argmaxProba(t.predictRow(X[i]))
	}
	return out
}

// PredictProba returns per-class probability vectors.
func (t *DecisionTree) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i := range X {
		out[i] = t.predictRow(X[i])
	}
	return out
}

type splitResult struct {
	gain      float64
	feature   int
	threshold float64
	leftIdx   []int
	rightIdx  []int
}

func (t *DecisionTree) buildNode(X [][]float64, y []int, idx []int, depth, p int, impurity func([]int) float64, rnd *rand.Rand) *dtNode {
	node := &dtNode{n: len(idx)}

	counts := make([]int, t.nClasses)
	for _, ii := range idx {
		counts[y[ii]]++
	}
	leaf := func() *dtNode {
		node.isLeaf = true
		node.probas = countsToProbas(counts)
		return node
	}
	if isPure(counts) || len(idx) < t.MinSamplesSplit {
		return leaf()
	}
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		return leaf()
	}

	// pick the features to try at this node; the shuffle consumes the tree's
	// seeded source, so the same seed grows the same tree
	feats := make([]int, p)
	for j := range feats {
		feats[j] = j
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < p {
		rnd.Shuffle(p, func(a, b int) { feats[a], feats[b] = feats[b], feats[a] })
		feats = feats[:t.MaxFeatures]
	}

	parent := impurity(counts)

	// search features in parallel, but reduce in slice order: ties between
	// features resolve the same way no matter how goroutines are scheduled
	results := make([]splitResult, len(feats))
	var wg sync.WaitGroup
	for fi, f := range feats {
		wg.Add(1)
		go func(fi, f int) {
			defer wg.Done()
			results[fi] = t.bestSplitForFeature(X, y, idx, f, parent, impurity)
		}(fi, f)
	}
	wg.Wait()

	best := splitResult{feature: -1}
	for _, r := range results {
		if r.feature >= 0 && r.gain > best.gain {
			best = r
		}
	}
	if best.feature < 0 || best.gain <= 0 {
		return leaf()
	}

	node.feature = best.feature
	node.threshold = best.threshold
	node.left = t.buildNode(X, y, best.leftIdx, depth+1, p, impurity, rnd)
	node.right = t.buildNode(X, y, best.rightIdx, depth+1, p, impurity, rnd)
	return node
}

func (t *DecisionTree) bestSplitForFeature(X [][]float64, y []int, idx []int, f int, parent float64, impurity func([]int) float64) splitResult {
	best := splitResult{feature: -1}

	order := append([]int(nil), idx...)
	sort.Slice(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

	total := len(order)
	rightCounts := make([]int, t.nClasses)
	for _, ii := range order {
		rightCounts[y[ii]]++
	}
	leftCounts := make([]int, t.nClasses)

	for s := 1; s < total; s++ {
		moved := order[s-1]
		leftCounts[y[moved]]++
		rightCounts[y[moved]]--

		if X[order[s]][f] == X[order[s-1]][f] {
			continue
		}
		if s < t.MinSamplesLeaf || total-s < t.MinSamplesLeaf {
			continue
		}

		impL := impurity(leftCounts)
		impR := impurity(rightCounts)
		weighted := float64(s)/float64(total)*impL + float64(total-s)/float64(total)*impR
		gain := parent - weighted
		if gain > best.gain {
			best = splitResult{
				gain:      gain,
				feature:   f,
				threshold: (X[order[s-1]][f] + X[order[s]][f]) / 2.0,
				leftIdx:   append([]int(nil), order[:s]...),
				rightIdx:  append([]int(nil), order[s:]...),
			}
		}
	}
	return best
}

func (t *DecisionTree) predictRow(x []float64) []float64 {
	if t.root == nil {
		p := make([]float64, t.nClasses)
		for i := range p {
			p[i] = 1.0 / float64(len(p))
		}
		return p
	}
	node := t.root
	for !node.isLeaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.probas
}

func giniFromCounts(counts []int) float64 {
	n := 0.0
	for _, c := range counts {
		n += float64(c)
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		p := float64(c) / n
		res += p * (1 - p)
	}
	return res
}

func entropyFromCounts(counts []int) float64 {
	n := 0.0
	for _, c := range counts {
		n += float64(c)
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		res -= p * math.Log2(p)
	}
	return res
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func countsToProbas(counts []int) []float64 {
	n := 0
	for _, c := range counts {
		n += c
	}
	p := make([]float64, len(counts))
	if n == 0 {
		return p
	}
	for i := range counts {
		p[i] = float64(counts[i]) / float64(n)
	}
	return p
}
