package model

import "math"

// Sigmoid maps a margin to a probability.
func Sigmoid(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) }

// Logit is the inverse of Sigmoid.
func Logit(p float64) float64 {
	p = clipProb(p)
	return math.Log(p / (1 - p))
}

// LogLoss is the mean binary cross-entropy of probabilities p against labels y.
func LogLoss(y []int, p []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	s := 0.0
	for i := range y {
		pi := clipProb(p[i])
		if y[i] == 1 {
			s -= math.Log(pi)
		} else {
			s -= math.Log(1 - pi)
		}
	}
	return s / float64(len(y))
}

// logisticGradHess returns the first and second derivative of the log-loss
// with respect to the margin.
func logisticGradHess(label int, margin float64) (g, h float64) {
	p := Sigmoid(margin)
	return p - float64(label), math.Max(p*(1-p), 1e-16)
}

func clipProb(p float64) float64 {
	return math.Min(math.Max(p, 1e-12), 1-1e-12)
}
