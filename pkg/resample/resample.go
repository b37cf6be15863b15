// Package resample provides the stratified train/test split and the
// stratified bootstrap used for model tuning. Every entry point takes an
// explicit seed and rejects zero: a missing seed is a caller bug, not an
// invitation to nondeterminism.
package resample

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// InsufficientDataError reports a label class too small to stratify.
type InsufficientDataError struct {
	Label string
	Count int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("resample: label %q has %d rows, too few to stratify", e.Label, e.Count)
}

// Bootstrap is one with-replacement draw from the training set plus the
// indices the draw missed (the out-of-bag set).
type Bootstrap struct {
	InBag    []int
	OutOfBag []int
}

// Split partitions row indices into train and test, stratified by label:
// each label contributes ratio of its rows to train, so class proportions in
// both halves track the full set within rounding. The same seed always
// produces the same partition.
func Split(labels []string, ratio float64, seed int64) (train, test []int, err error) {
	if seed == 0 {
		return nil, nil, fmt.Errorf("resample: seed must be non-zero")
	}
	if ratio <= 0 || ratio >= 1 {
		return nil, nil, fmt.Errorf("resample: split ratio %v outside (0,1)", ratio)
	}
	groups, order, err := groupByLabel(labels)
	if err != nil {
		return nil, nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	for _, label := range order {
		idx := groups[label]
		perm := rng.Perm(len(idx))
		nTrain := int(math.Round(ratio * float64(len(idx))))
		// keep at least one row on each side
		if nTrain == 0 {
			nTrain = 1
		}
		if nTrain == len(idx) {
			nTrain = len(idx) - 1
		}
		for i, p := range perm {
			if i < nTrain {
				train = append(train, idx[p])
			} else {
				test = append(test, idx[p])
			}
		}
	}
	sort.Ints(train)
	sort.Ints(test)
	return train, test, nil
}

// Bootstraps draws count independent stratified bootstrap resamples over the
// given rows. Each resample is training-set sized: every label contributes
// exactly as many draws (with replacement) as it has rows.
func Bootstraps(labels []string, count int, seed int64) ([]Bootstrap, error) {
	if seed == 0 {
		return nil, fmt.Errorf("resample: seed must be non-zero")
	}
	if count < 1 {
		return nil, fmt.Errorf("resample: bootstrap count %d < 1", count)
	}
	groups, order, err := groupByLabel(labels)
	if err != nil {
		return nil, err
	}

	out := make([]Bootstrap, count)
	for b := 0; b < count; b++ {
		// one derived source per resample keeps draws independent of both
		// ordering and count
		rng := rand.New(rand.NewSource(seed + int64(b)))
		drawn := make(map[int]bool, len(labels))
		var inBag []int
		for _, label := range order {
			idx := groups[label]
			for i := 0; i < len(idx); i++ {
				pick := idx[rng.Intn(len(idx))]
				inBag = append(inBag, pick)
				drawn[pick] = true
			}
		}
		var oob []int
		for i := range labels {
			if !drawn[i] {
				oob = append(oob, i)
			}
		}
		sort.Ints(inBag)
		out[b] = Bootstrap{InBag: inBag, OutOfBag: oob}
	}
	return out, nil
}

// groupByLabel buckets row indices by label and returns the labels in sorted
// order so iteration is deterministic. Any class with fewer than two rows is
// an InsufficientDataError.
func groupByLabel(labels []string) (map[string][]int, []string, error) {
	groups := make(map[string][]int)
	for i, label := range labels {
		groups[label] = append(groups[label], i)
	}
	order := make([]string, 0, len(groups))
	for label := range groups {
		order = append(order, label)
	}
	sort.Strings(order)
	for _, label := range order {
		if len(groups[label]) < 2 {
			return nil, nil, &InsufficientDataError{Label: label, Count: len(groups[label])}
		}
	}
	return groups, order, nil
}
