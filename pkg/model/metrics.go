package model

// Confusion counts binary outcomes with 1 (delayed) as the positive class.
type Confusion struct {
	TP, FP, TN, FN int
}

// NewConfusion tallies predictions against labels. Extra predictions are ignored.
func NewConfusion(yTrue, yPred []int) Confusion {
	var c Confusion
	for i, want := range yTrue {
		switch got := yPred[i]; {
		case got == 1 && want == 1:
			c.TP++
		case got == 1:
			c.FP++
		case want == 1:
			c.FN++
		default:
			c.TN++
		}
	}
	return c
}

// Total is the number of tallied rows.
func (c Confusion) Total() int { return c.TP + c.FP + c.TN + c.FN }

// Accuracy is the share of exact matches; 0 for no rows.
func (c Confusion) Accuracy() float64 {
	if c.Total() == 0 {
		return 0
	}
	return float64(c.TP+c.TN) / float64(c.Total())
}

// Precision is 0 when nothing was predicted positive.
func (c Confusion) Precision() float64 { return ratio(c.TP, c.TP+c.FP) }

// Recall is 0 when there are no positives.
func (c Confusion) Recall() float64 { return ratio(c.TP, c.TP+c.FN) }

// F1 is the harmonic mean of precision and recall.
func (c Confusion) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// Accuracy is the fraction of predictions equal to the true label.
func Accuracy(yTrue, yPred []int) float64 { return NewConfusion(yTrue, yPred).Accuracy() }

// PrecisionRecallF1 scores the delayed class.
func PrecisionRecallF1(yTrue, yPred []int) (prec, rec, f1 float64) {
	c := NewConfusion(yTrue, yPred)
	return c.Precision(), c.Recall(), c.F1()
}

// BinaryPredFromProba labels every probability at or above threshold as 1.
func BinaryPredFromProba(proba []float64, threshold float64) []int {
	out := make([]int, len(proba))
	for i := range proba {
		if proba[i] >= threshold {
			out[i] = 1
		}
	}
	return out
}
