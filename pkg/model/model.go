package model

// Classifier is a binary classifier over dense feature rows.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) []int
	PredictProba(X [][]float64) []float64 // returns p(y=1)
}

var _ Classifier = (*GradientBoostingClassifier)(nil)
