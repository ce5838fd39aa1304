package model

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"math"
	"math/rand"
	"sort"
)

// GradientBoostingClassifier is a binary classifier built from regression
// trees fitted one after another to the gradient of the log-loss.
type GradientBoostingClassifier struct {
	// Hyperparameters / options
	NEstimators     int
	LearningRate    float64
	MaxDepth        int
	Subsample       float64 // fraction of rows drawn (without replacement) per tree
	ColsampleByTree float64 // fraction of features drawn per tree
	Lambda          float64
	Gamma           float64
	MinChildWeight  float64
	BaseScore       float64 // initial probability
	RandomState     int64

	// Internal state
	Trees     []*RegressionTree
	NFeatures int
	LossCurve []float64 // training log-loss after each tree
}

// BoostingOption functional config for GradientBoostingClassifier.
type BoostingOption func(*GradientBoostingClassifier)

func WithNEstimators(n int) BoostingOption {
	return func(b *GradientBoostingClassifier) { b.NEstimators = n }
}
func WithLearningRate(lr float64) BoostingOption {
	return func(b *GradientBoostingClassifier) { b.LearningRate = lr }
}
func WithMaxDepth(d int) BoostingOption {
	return func(b *GradientBoostingClassifier) { b.MaxDepth = d }
}
func WithSubsample(f float64) BoostingOption {
	return func(b *GradientBoostingClassifier) { b.Subsample = f }
}
func WithColsampleByTree(f float64) BoostingOption {
	return func(b *GradientBoostingClassifier) { b.ColsampleByTree = f }
}
func WithLambda(l float64) BoostingOption {
	return func(b *GradientBoostingClassifier) { b.Lambda = l }
}
func WithMinChildWeight(w float64) BoostingOption {
	return func(b *GradientBoostingClassifier) { b.MinChildWeight = w }
}
func WithRandomState(seed int64) BoostingOption {
	return func(b *GradientBoostingClassifier) { b.RandomState = seed }
}

// NewGradientBoostingClassifier returns a classifier configured with the
// delay model's fixed hyperparameters; options override them.
func NewGradientBoostingClassifier(opts ...BoostingOption) *GradientBoostingClassifier {
	b := &GradientBoostingClassifier{
		NEstimators:     100,
		LearningRate:    0.1,
		MaxDepth:        4,
		Subsample:       0.9,
		ColsampleByTree: 0.9,
		Lambda:          1.0,
		Gamma:           0.0,
		MinChildWeight:  1.0,
		BaseScore:       0.5,
		RandomState:     42,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// ---------------------------
// Public API
// ---------------------------

// Fit trains the ensemble on X (n x p) and labels y in {0,1}.
func (b *GradientBoostingClassifier) Fit(X [][]float64, y []int) error {
	return b.FitContext(context.Background(), X, y)
}

// FitContext is Fit with cancellation checked between trees.
func (b *GradientBoostingClassifier) FitContext(ctx context.Context, X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("boosting: empty X")
	}
	n := len(X)
	if len(y) != n {
		return errors.New("boosting: X and y length mismatch")
	}
	p := len(X[0])
	if p == 0 {
		return errors.New("boosting: rows have no features")
	}
	for i := range X {
		if len(X[i]) != p {
			return errors.New("boosting: inconsistent number of features in X rows")
		}
	}
	for _, label := range y {
		if label != 0 && label != 1 {
			return errors.New("boosting: labels must be 0 or 1")
		}
	}
	if b.NEstimators <= 0 || b.MaxDepth <= 0 || b.LearningRate <= 0 {
		return errors.New("boosting: NEstimators, MaxDepth and LearningRate must be positive")
	}
	if b.Subsample <= 0 || b.Subsample > 1 || b.ColsampleByTree <= 0 || b.ColsampleByTree > 1 {
		return errors.New("boosting: sample fractions must be in (0,1]")
	}

	rnd := rand.New(rand.NewSource(b.RandomState))
	params := treeParams{
		maxDepth:       b.MaxDepth,
		lambda:         b.Lambda,
		gamma:          b.Gamma,
		minChildWeight: b.MinChildWeight,
		eta:            b.LearningRate,
	}

	b.NFeatures = p
	b.Trees = make([]*RegressionTree, 0, b.NEstimators)
	b.LossCurve = make([]float64, 0, b.NEstimators)

	margin := make([]float64, n)
	base := Logit(b.BaseScore)
	for i := range margin {
		margin[i] = base
	}
	grad := make([]float64, n)
	hess := make([]float64, n)
	proba := make([]float64, n)

	nRows := fractionCount(b.Subsample, n)
	nCols := fractionCount(b.ColsampleByTree, p)

	for round := 0; round < b.NEstimators; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i := range margin {
			grad[i], hess[i] = logisticGradHess(y[i], margin[i])
		}
		rows := sample(rnd, n, nRows)
		features := sample(rnd, p, nCols)

		tree := fitRegressionTree(X, grad, hess, rows, features, params)
		b.Trees = append(b.Trees, tree)

		for i := range margin {
			margin[i] += tree.Predict(X[i])
			proba[i] = Sigmoid(margin[i])
		}
		b.LossCurve = append(b.LossCurve, LogLoss(y, proba))
	}
	return nil
}

// DecisionFunction returns the raw margin (log-odds) for one row.
func (b *GradientBoostingClassifier) DecisionFunction(x []float64) float64 {
	m := Logit(b.BaseScore)
	for _, t := range b.Trees {
		m += t.Predict(x)
	}
	return m
}

// PredictProba returns p(y=1) for every row of X.
func (b *GradientBoostingClassifier) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range X {
		out[i] = Sigmoid(b.DecisionFunction(X[i]))
	}
	return out
}

// Predict returns 0/1 labels at the 0.5 threshold.
func (b *GradientBoostingClassifier) Predict(X [][]float64) []int {
	return BinaryPredFromProba(b.PredictProba(X), 0.5)
}

// Validate checks that a (typically decoded) model is usable for rows of width nFeatures.
func (b *GradientBoostingClassifier) Validate(nFeatures int) error {
	if len(b.Trees) == 0 {
		return errors.New("boosting: model has no trees")
	}
	if b.NFeatures != nFeatures {
		return errors.New("boosting: feature width does not match")
	}
	if math.IsNaN(b.BaseScore) || b.BaseScore <= 0 || b.BaseScore >= 1 {
		return errors.New("boosting: base score outside (0,1)")
	}
	for _, t := range b.Trees {
		if t == nil || !t.valid() || t.maxFeature() >= nFeatures {
			return errors.New("boosting: malformed tree")
		}
	}
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler using gob.
func (b *GradientBoostingClassifier) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	fields := []any{
		b.NEstimators, b.LearningRate, b.MaxDepth, b.Subsample, b.ColsampleByTree,
		b.Lambda, b.Gamma, b.MinChildWeight, b.BaseScore, b.RandomState,
		b.NFeatures, b.LossCurve, b.Trees,
	}
	for _, f := range fields {
		if err := enc.Encode(f); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler using gob.
func (b *GradientBoostingClassifier) UnmarshalBinary(data []byte) error {
	dec := gob.NewDecoder(bytes.NewBuffer(data))
	fields := []any{
		&b.NEstimators, &b.LearningRate, &b.MaxDepth, &b.Subsample, &b.ColsampleByTree,
		&b.Lambda, &b.Gamma, &b.MinChildWeight, &b.BaseScore, &b.RandomState,
		&b.NFeatures, &b.LossCurve, &b.Trees,
	}
	for _, f := range fields {
		if err := dec.Decode(f); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------
// Helpers
// ---------------------------

func fractionCount(frac float64, n int) int {
	k := int(math.Floor(frac*float64(n) + 1e-9))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	return k
}

// sample draws k of the n indices without replacement, returned sorted.
func sample(rnd *rand.Rand, n, k int) []int {
	perm := rnd.Perm(n)
	out := append([]int(nil), perm[:k]...)
	sort.Ints(out)
	return out
}
