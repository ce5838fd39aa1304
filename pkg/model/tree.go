package model

import (
	"math"
	"sort"
	"sync"
)

// ---------------------------
// Types
// ---------------------------

// TreeNode is one node of a RegressionTree. Nodes reference their children
// by index into RegressionTree.Nodes.
type TreeNode struct {
	Leaf      bool
	Feature   int
	Threshold float64 // x[Feature] < Threshold => Left
	Left      int
	Right     int
	Weight    float64 // leaf output, already scaled by the learning rate
	Cover     float64 // sum of hessians that reached the node
}

// RegressionTree is a second-order regression tree fitted to log-loss
// gradients. It is the base learner of GradientBoostingClassifier.
type RegressionTree struct {
	Nodes []TreeNode
}

// treeParams configures a single tree fit.
type treeParams struct {
	maxDepth       int
	lambda         float64 // L2 penalty on leaf weights
	gamma          float64 // minimum gain to split
	minChildWeight float64 // minimum hessian sum per child
	eta            float64
}

// splitResult holds the best split found for one feature.
type splitResult struct {
	gain      float64
	feature   int
	threshold float64
	leftIdx   []int
	rightIdx  []int
}

// pair is a feature value and the row it came from.
type pair struct {
	v float64
	i int
}

// ---------------------------
// Fit / Predict
// ---------------------------

// fitRegressionTree grows a tree over rows using only the listed features.
func fitRegressionTree(X [][]float64, grad, hess []float64, rows, features []int, p treeParams) *RegressionTree {
	t := &RegressionTree{}
	t.build(X, grad, hess, rows, features, 0, p)
	return t
}

// Predict returns the tree output for a single row.
func (t *RegressionTree) Predict(x []float64) float64 {
	if len(t.Nodes) == 0 {
		return 0
	}
	n := &t.Nodes[0]
	for !n.Leaf {
		if x[n.Feature] < n.Threshold {
			n = &t.Nodes[n.Left]
		} else {
			n = &t.Nodes[n.Right]
		}
	}
	return n.Weight
}

// Depth returns the depth of the deepest leaf (a single leaf has depth 0).
func (t *RegressionTree) Depth() int {
	if len(t.Nodes) == 0 {
		return 0
	}
	var walk func(i int) int
	walk = func(i int) int {
		n := t.Nodes[i]
		if n.Leaf {
			return 0
		}
		return 1 + max(walk(n.Left), walk(n.Right))
	}
	return walk(0)
}

// maxFeature is the largest feature index used by a split, or -1.
func (t *RegressionTree) maxFeature() int {
	m := -1
	for _, n := range t.Nodes {
		if !n.Leaf && n.Feature > m {
			m = n.Feature
		}
	}
	return m
}

// valid reports whether child indices stay inside the node slice and point forward.
func (t *RegressionTree) valid() bool {
	for i, n := range t.Nodes {
		if n.Leaf {
			continue
		}
		if n.Left <= i || n.Right <= i || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
			return false
		}
	}
	return len(t.Nodes) > 0
}

// ---------------------------
// Internal builders & helpers
// ---------------------------

// build appends the subtree for rows and returns its node index.
func (t *RegressionTree) build(X [][]float64, grad, hess []float64, rows, features []int, depth int, p treeParams) int {
	G, H := sums(grad, hess, rows)
	idx := len(t.Nodes)
	t.Nodes = append(t.Nodes, TreeNode{Cover: H})

	if depth >= p.maxDepth || len(rows) < 2 {
		t.Nodes[idx].Leaf = true
		t.Nodes[idx].Weight = leafWeight(G, H, p)
		return idx
	}

	// Search every feature concurrently; results land in feature order so the
	// reduction below is deterministic.
	results := make([]splitResult, len(features))
	var wg sync.WaitGroup
	for k, f := range features {
		wg.Add(1)
		go func(k, f int) {
			defer wg.Done()
			results[k] = findBestSplitForFeature(X, grad, hess, rows, f, G, H, p)
		}(k, f)
	}
	wg.Wait()

	best := splitResult{feature: -1}
	for _, r := range results {
		if r.feature >= 0 && r.gain > best.gain {
			best = r
		}
	}
	if best.feature == -1 || best.gain <= p.gamma || best.gain < 1e-12 {
		t.Nodes[idx].Leaf = true
		t.Nodes[idx].Weight = leafWeight(G, H, p)
		return idx
	}

	t.Nodes[idx].Feature = best.feature
	t.Nodes[idx].Threshold = best.threshold
	left := t.build(X, grad, hess, best.leftIdx, features, depth+1, p)
	right := t.build(X, grad, hess, best.rightIdx, features, depth+1, p)
	t.Nodes[idx].Left = left
	t.Nodes[idx].Right = right
	return idx
}

// findBestSplitForFeature scans the sorted values of feature f and returns the
// threshold with the highest second-order gain.
func findBestSplitForFeature(X [][]float64, grad, hess []float64, rows []int, f int, G, H float64, p treeParams) splitResult {
	result := splitResult{feature: -1}

	vals := make([]pair, 0, len(rows))
	for _, r := range rows {
		vals = append(vals, pair{X[r][f], r})
	}
	sort.SliceStable(vals, func(a, b int) bool { return vals[a].v < vals[b].v })

	parent := score(G, H, p.lambda)
	GL, HL := 0.0, 0.0
	bestAt := -1
	for s := 1; s < len(vals); s++ {
		GL += grad[vals[s-1].i]
		HL += hess[vals[s-1].i]
		if vals[s].v == vals[s-1].v {
			continue
		}
		GR, HR := G-GL, H-HL
		if HL < p.minChildWeight || HR < p.minChildWeight {
			continue
		}
		gain := 0.5 * (score(GL, HL, p.lambda) + score(GR, HR, p.lambda) - parent)
		if gain > result.gain {
			result.gain = gain
			result.feature = f
			result.threshold = (vals[s-1].v + vals[s].v) / 2.0
			bestAt = s
		}
	}
	if bestAt < 0 {
		return result
	}
	result.leftIdx = indicesFromPairs(vals[:bestAt])
	result.rightIdx = indicesFromPairs(vals[bestAt:])
	sort.Ints(result.leftIdx)
	sort.Ints(result.rightIdx)
	return result
}

func sums(grad, hess []float64, rows []int) (G, H float64) {
	for _, r := range rows {
		G += grad[r]
		H += hess[r]
	}
	return G, H
}

func score(G, H, lambda float64) float64 {
	return G * G / (H + lambda)
}

func leafWeight(G, H float64, p treeParams) float64 {
	w := -G / (H + p.lambda) * p.eta
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return 0
	}
	return w
}

func indicesFromPairs(pairs []pair) []int {
	out := make([]int, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p.i)
	}
	return out
}
