package model

import (
	"errors"
	"fmt"
)

// leafChild marks a node without children, as scikit-learn exports it.
const leafChild = -1

// ForestParams holds the trees of a random forest classifier.
type ForestParams struct {
	Trees []TreeParams `json:"trees"`
}

// TreeParams is one decision tree in scikit-learn's parallel-array layout.
// Node i splits on Feature[i] with row[Feature[i]] <= Threshold[i] going to
// Left[i]. Leaves have Left[i] == Right[i] == -1 and carry per-class
// sample counts or weights in Value[i].
type TreeParams struct {
	Feature   []int       `json:"feature"`
	Threshold []float64   `json:"threshold"`
	Left      []int       `json:"left"`
	Right     []int       `json:"right"`
	Value     [][]float64 `json:"value"`
}

type forest struct {
	trees   []tree
	classes int
}

type tree struct {
	feature   []int
	threshold []float64
	left      []int
	right     []int
	// leafProba holds normalised class probabilities for leaves only.
	leafProba [][]float64
}

func newForest(params *ForestParams, width, classes int) (*forest, error) {
	if params == nil {
		return nil, errors.New("forest parameters missing")
	}
	if len(params.Trees) == 0 {
		return nil, errors.New("forest has no trees")
	}

	f := &forest{trees: make([]tree, 0, len(params.Trees)), classes: classes}
	for i := range params.Trees {
		t, err := newTree(&params.Trees[i], width, classes)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		f.trees = append(f.trees, t)
	}
	return f, nil
}

func newTree(p *TreeParams, width, classes int) (tree, error) {
	n := len(p.Left)
	if n == 0 {
		return tree{}, errors.New("no nodes")
	}
	if len(p.Right) != n || len(p.Feature) != n || len(p.Threshold) != n || len(p.Value) != n {
		return tree{}, errors.New("node arrays differ in length")
	}

	t := tree{
		feature:   p.Feature,
		threshold: p.Threshold,
		left:      p.Left,
		right:     p.Right,
		leafProba: make([][]float64, n),
	}

	for i := range n {
		if p.Left[i] == leafChild || p.Right[i] == leafChild {
			if p.Left[i] != p.Right[i] {
				return tree{}, fmt.Errorf("node %d has exactly one child", i)
			}
			proba, err := normalise(p.Value[i], classes)
			if err != nil {
				return tree{}, fmt.Errorf("node %d: %w", i, err)
			}
			t.leafProba[i] = proba
			continue
		}

		// Children must come after their parent, which rules out cycles.
		if p.Left[i] <= i || p.Left[i] >= n || p.Right[i] <= i || p.Right[i] >= n {
			return tree{}, fmt.Errorf("node %d has child out of range", i)
		}
		if p.Feature[i] < 0 || p.Feature[i] >= width {
			return tree{}, fmt.Errorf("%w: node %d splits on column %d of %d",
				ErrFeatureMismatch, i, p.Feature[i], width)
		}
	}

	return t, nil
}

func normalise(value []float64, classes int) ([]float64, error) {
	if len(value) != classes {
		return nil, fmt.Errorf("leaf has %d values for %d classes", len(value), classes)
	}

	total := 0.0
	for _, v := range value {
		if v < 0 {
			return nil, errors.New("leaf value is negative")
		}
		total += v
	}
	if total == 0 {
		return nil, errors.New("leaf values sum to zero")
	}

	proba := make([]float64, classes)
	for i, v := range value {
		proba[i] = v / total
	}
	return proba, nil
}

func (t *tree) leaf(row []float64) []float64 {
	node := 0
	for t.leafProba[node] == nil {
		if row[t.feature[node]] <= t.threshold[node] {
			node = t.left[node]
		} else {
			node = t.right[node]
		}
	}
	return t.leafProba[node]
}

func (f *forest) proba(row []float64) []float64 {
	sum := make([]float64, f.classes)
	for i := range f.trees {
		for c, p := range f.trees[i].leaf(row) {
			sum[c] += p
		}
	}
	for c := range sum {
		sum[c] /= float64(len(f.trees))
	}
	return sum
}
