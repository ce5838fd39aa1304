// Package pipeline chains the one-hot encoder and the boosted classifier
// into the single object that is trained, saved and queried.
package pipeline

import (
	"context"
	"slices"
	"time"

	"github.com/pkg/errors"

	"github.com/SomethingReallCool234/NexGen/pkg/dataprep"
	"github.com/SomethingReallCool234/NexGen/pkg/features"
	"github.com/SomethingReallCool234/NexGen/pkg/model"
)

// Metadata records where a fitted pipeline came from.
type Metadata struct {
	RunID         string
	TrainedAt     time.Time
	Seed          int64
	TrainRows     int
	TestRows      int
	TrainAccuracy float64
	TestAccuracy  float64
}

// DelayPipeline encodes a shipment and scores it with the classifier.
// After Fit (or Load) it is read-only and safe for concurrent use.
type DelayPipeline struct {
	Schema     Schema
	Encoder    *dataprep.OneHotEncoder
	Classifier *model.GradientBoostingClassifier
	Meta       Metadata
}

// New returns an unfitted pipeline for schema using clf.
func New(schema Schema, clf *model.GradientBoostingClassifier) *DelayPipeline {
	return &DelayPipeline{
		Schema:     schema,
		Encoder:    dataprep.NewOneHotEncoder(schema.Categorical...),
		Classifier: clf,
	}
}

// Fit learns the encoder vocabulary from shipments and trains the classifier.
func (p *DelayPipeline) Fit(ctx context.Context, shipments []features.Shipment, y []int) error {
	if len(shipments) == 0 {
		return errors.New("pipeline: no training rows")
	}
	cats := make([][]string, len(shipments))
	for i, s := range shipments {
		cats[i] = s.Categorical()
	}
	if err := p.Encoder.Fit(cats); err != nil {
		return errors.Wrap(err, "fit encoder")
	}
	if err := p.Classifier.FitContext(ctx, p.TransformAll(shipments), y); err != nil {
		return errors.Wrap(err, "fit classifier")
	}
	return nil
}

// Transform encodes one shipment: one-hot categorical block, then numeric values.
func (p *DelayPipeline) Transform(s features.Shipment) []float64 {
	row := make([]float64, 0, p.Width())
	row = p.Encoder.AppendEncoded(row, s.Categorical())
	return append(row, s.Numeric()...)
}

// TransformAll encodes every shipment.
func (p *DelayPipeline) TransformAll(shipments []features.Shipment) [][]float64 {
	X := make([][]float64, len(shipments))
	for i, s := range shipments {
		X[i] = p.Transform(s)
	}
	return X
}

// Width is the encoded row width.
func (p *DelayPipeline) Width() int {
	return p.Encoder.Width() + len(p.Schema.Numeric)
}

// FeatureNames names every encoded column.
func (p *DelayPipeline) FeatureNames() []string {
	return append(p.Encoder.FeatureNames(), p.Schema.Numeric...)
}

// PredictProbability returns the probability that s will be delayed.
// Categories never seen in training encode to zeros and are not an error.
func (p *DelayPipeline) PredictProbability(s features.Shipment) float64 {
	return model.Sigmoid(p.Classifier.DecisionFunction(p.Transform(s)))
}

// PredictProba scores every shipment.
func (p *DelayPipeline) PredictProba(shipments []features.Shipment) []float64 {
	return p.Classifier.PredictProba(p.TransformAll(shipments))
}

// Predict labels every shipment at the 0.5 threshold.
func (p *DelayPipeline) Predict(shipments []features.Shipment) []int {
	return model.BinaryPredFromProba(p.PredictProba(shipments), 0.5)
}

// Score is the accuracy of Predict against y.
func (p *DelayPipeline) Score(shipments []features.Shipment, y []int) float64 {
	return model.Accuracy(y, p.Predict(shipments))
}

// Validate checks a decoded pipeline against the schema the caller expects.
func (p *DelayPipeline) Validate(expected Schema) error {
	if !p.Schema.Equal(expected) {
		return errors.New("feature schema does not match")
	}
	if p.Encoder == nil || p.Classifier == nil {
		return errors.New("pipeline is incomplete")
	}
	if !p.Encoder.Fitted() || !slices.Equal(p.Encoder.Columns, expected.Categorical) {
		return errors.New("encoder columns do not match schema")
	}
	if err := p.Classifier.Validate(p.Width()); err != nil {
		return err
	}
	return nil
}
