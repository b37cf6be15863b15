package model

import (
	"errors"
	"math/rand"
	"sync"
)

// RandomForest is an ensemble of bootstrap-trained decision trees. Votes are
// averaged leaf distributions, so the forest exposes calibrated-ish
// probabilities rather than bare majority counts.
type RandomForest struct {
	Trees       int
	Mtry        int // features considered per split; 0 => all
	MinNodeSize int // minimum rows needed to split a node
	MaxDepth    int
	Seed        int64

	trees    []*DecisionTree
	nClasses int
}

// ForestOption is the functional config for RandomForest.
type ForestOption func(*RandomForest)

func ForestTrees(n int) ForestOption       { return func(rf *RandomForest) { rf.Trees = n } }
func ForestMtry(k int) ForestOption        { return func(rf *RandomForest) { rf.Mtry = k } }
func ForestMinNodeSize(n int) ForestOption { return func(rf *RandomForest) { rf.MinNodeSize = n } }
func ForestMaxDepth(d int) ForestOption    { return func(rf *RandomForest) { rf.MaxDepth = d } }
func ForestSeed(seed int64) ForestOption   { return func(rf *RandomForest) { rf.Seed = seed } }

// NewRandomForest builds a forest with the pipeline defaults.
func NewRandomForest(opts ...ForestOption) *RandomForest {
	rf := &RandomForest{
		Trees:       300,
		MinNodeSize: 2,
	}
	for _, o := range opts {
		o(rf)
	}
	return rf
}

// Fit grows the forest. Trees train concurrently; each derives its own rand
// source from the forest seed, so the grown forest is identical for a given
// seed regardless of scheduling.
func (rf *RandomForest) Fit(X [][]float64, y []int, nClasses int) error {
	if len(X) == 0 {
		return errors.New("forest: empty training set")
	}
	if len(y) != len(X) {
		return errors.New("forest: X and y length mismatch")
	}
	if rf.Seed == 0 {
		return errors.New("forest: seed must be non-zero")
	}
	rf.nClasses = nClasses
	rf.trees = make([]*DecisionTree, rf.Trees)
	n := len(X)

	errs := make([]error, rf.Trees)
	var wg sync.WaitGroup
	for i := 0; i < rf.Trees; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			treeSeed := rf.Seed + int64(i) + 1
			rng := rand.New(rand.NewSource(treeSeed))
			sample := make([]int, n)
			for j := range sample {
				sample[j] = rng.Intn(n)
			}
			tree := NewDecisionTree(
				TreeMaxDepth(rf.MaxDepth),
				TreeMinSamplesSplit(rf.MinNodeSize),
				TreeMaxFeatures(rf.Mtry),
				TreeSeed(treeSeed),
			)
			if err := tree.FitIndices(X, y, nClasses, sample); err != nil {
				errs[i] = err
				return
			}
			rf.trees[i] = tree
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Predict returns the argmax of the averaged tree distributions.
func (rf *RandomForest) Predict(X [][]float64) []int {
	probas := rf.PredictProba(X)
	out := make([]int, len(X))
	for i, p := range probas {
		out[i] = argmaxProba(p)
	}
	return out
}

// PredictProba averages per-class probabilities across all trees.
func (rf *RandomForest) PredictProba(X [][]float64) [][]float64 {
	n := len(X)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, rf.nClasses)
	}
	if n == 0 || len(rf.trees) == 0 {
		return out
	}

	perTree := make([][][]float64, len(rf.trees))
	var wg sync.WaitGroup
	for ti, tree := range rf.trees {
		wg.Add(1)
		go func(ti int, tree *DecisionTree) {
			defer wg.Done()
			perTree[ti] = tree.PredictProba(X)
		}(ti, tree)
	}
	wg.Wait()

	inv := 1.0 / float64(len(rf.trees))
	for _, probs := range perTree {
		for i := range probs {
			for c, p := range probs[i] {
				out[i][c] += p * inv
			}
		}
	}
	return out
}
