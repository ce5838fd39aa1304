package model

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threshold data: y = 1 when x0 > 0.5; x1 and x2 are noise.
func makeData(n int, seed int64) ([][]float64, []int) {
	rnd := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]int, n)
	for i := range X {
		X[i] = []float64{rnd.Float64(), rnd.Float64(), float64(rnd.Intn(3))}
		if X[i][0] > 0.5 {
			y[i] = 1
		}
	}
	return X, y
}

func TestGradientBoostingFit(t *testing.T) {
	X, y := makeData(200, 1)
	clf := NewGradientBoostingClassifier()
	require.NoError(t, clf.Fit(X, y))

	assert.Len(t, clf.Trees, 100)
	for _, tree := range clf.Trees {
		assert.LessOrEqual(t, tree.Depth(), 4)
	}
	assert.Greater(t, Accuracy(y, clf.Predict(X)), 0.95)

	require.Len(t, clf.LossCurve, 100)
	assert.Less(t, clf.LossCurve[99], clf.LossCurve[0])

	for _, p := range clf.PredictProba(X) {
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestGradientBoostingDeterministic(t *testing.T) {
	X, y := makeData(120, 2)
	a := NewGradientBoostingClassifier(WithRandomState(7))
	b := NewGradientBoostingClassifier(WithRandomState(7))
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))
	assert.Equal(t, a.PredictProba(X), b.PredictProba(X))
}

func TestGradientBoostingOptions(t *testing.T) {
	clf := NewGradientBoostingClassifier(
		WithNEstimators(5), WithLearningRate(0.3), WithMaxDepth(2),
		WithSubsample(1), WithColsampleByTree(1), WithLambda(0), WithMinChildWeight(0.5),
	)
	X, y := makeData(50, 3)
	require.NoError(t, clf.Fit(X, y))
	assert.Len(t, clf.Trees, 5)
	for _, tree := range clf.Trees {
		assert.LessOrEqual(t, tree.Depth(), 2)
	}
}

func TestGradientBoostingFitErrors(t *testing.T) {
	tests := []struct {
		name string
		X    [][]float64
		y    []int
	}{
		{"empty", nil, nil},
		{"length mismatch", [][]float64{{1}, {2}}, []int{0}},
		{"ragged rows", [][]float64{{1, 2}, {2}}, []int{0, 1}},
		{"no features", [][]float64{{}, {}}, []int{0, 1}},
		{"bad label", [][]float64{{1}, {2}}, []int{0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := NewGradientBoostingClassifier().Fit(tt.X, tt.y); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestGradientBoostingCancelled(t *testing.T) {
	X, y := makeData(50, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewGradientBoostingClassifier().FitContext(ctx, X, y)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestGradientBoostingBinaryRoundTrip(t *testing.T) {
	X, y := makeData(80, 5)
	clf := NewGradientBoostingClassifier(WithNEstimators(10))
	require.NoError(t, clf.Fit(X, y))

	raw, err := clf.MarshalBinary()
	require.NoError(t, err)
	var got GradientBoostingClassifier
	require.NoError(t, got.UnmarshalBinary(raw))

	assert.Equal(t, clf.PredictProba(X), got.PredictProba(X))
	assert.NoError(t, got.Validate(3))
	assert.Error(t, got.Validate(4))
}

func TestValidateMalformed(t *testing.T) {
	clf := NewGradientBoostingClassifier()
	clf.NFeatures = 2
	assert.Error(t, clf.Validate(2), "no trees")

	clf.Trees = []*RegressionTree{{Nodes: []TreeNode{{Feature: 5, Left: 1, Right: 2}, {Leaf: true}, {Leaf: true}}}}
	assert.Error(t, clf.Validate(2), "feature out of range")

	clf.Trees = []*RegressionTree{{Nodes: []TreeNode{{Feature: 0, Left: 0, Right: 9}}}}
	assert.Error(t, clf.Validate(2), "bad child index")

	clf.Trees = []*RegressionTree{{Nodes: []TreeNode{{Feature: 1, Left: 1, Right: 2}, {Leaf: true}, {Leaf: true}}}}
	assert.NoError(t, clf.Validate(2))
}
