// Package train runs one training pass: stratified split, pipeline fit and
// evaluation on both partitions.
package train

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/SomethingReallCool234/NexGen/pkg/apperr"
	"github.com/SomethingReallCool234/NexGen/pkg/features"
	"github.com/SomethingReallCool234/NexGen/pkg/loader"
	"github.com/SomethingReallCool234/NexGen/pkg/model"
	"github.com/SomethingReallCool234/NexGen/pkg/pipeline"
)

// Config holds the split settings. The model hyperparameters are fixed.
type Config struct {
	TestRatio float64
	Seed      int64
}

// DefaultConfig is an 80/20 split with seed 42.
func DefaultConfig() Config {
	return Config{TestRatio: 0.2, Seed: 42}
}

// Result is a fitted pipeline and how well it does.
type Result struct {
	Pipeline      *pipeline.DelayPipeline
	TrainRows     int
	TestRows      int
	TrainAccuracy float64
	TestAccuracy  float64
	Confusion     model.Confusion // test partition, positive class = delayed
	Precision     float64
	Recall        float64
	F1            float64
	TrainLogLoss  float64
	Duration      time.Duration
}

// Run splits examples, fits the pipeline on the train partition and scores
// both partitions. The same examples and seed give the same result.
func Run(ctx context.Context, examples []features.Example, cfg Config, logger log.Logger) (*Result, error) {
	start := time.Now()
	if len(examples) == 0 {
		return nil, &apperr.InsufficientDataError{Reason: "no training examples after cleanup"}
	}

	y := features.Labels(examples)
	trainIdx, testIdx, err := loader.StratifiedSplit(y, cfg.TestRatio, cfg.Seed)
	if err != nil {
		return nil, err
	}
	xTrain, yTrain := pick(examples, trainIdx)
	xTest, yTest := pick(examples, testIdx)
	level.Debug(logger).Log("msg", "split", "train", len(trainIdx), "test", len(testIdx), "seed", cfg.Seed)

	clf := model.NewGradientBoostingClassifier(model.WithRandomState(cfg.Seed))
	p := pipeline.New(pipeline.DefaultSchema(), clf)
	if err := p.Fit(ctx, xTrain, yTrain); err != nil {
		return nil, errors.Wrap(err, "train")
	}

	res := &Result{
		Pipeline:      p,
		TrainRows:     len(xTrain),
		TestRows:      len(xTest),
		TrainAccuracy: p.Score(xTrain, yTrain),
		TestAccuracy:  p.Score(xTest, yTest),
	}
	res.Confusion = model.NewConfusion(yTest, p.Predict(xTest))
	res.Precision, res.Recall, res.F1 = res.Confusion.Precision(), res.Confusion.Recall(), res.Confusion.F1()
	if n := len(clf.LossCurve); n > 0 {
		res.TrainLogLoss = clf.LossCurve[n-1]
	}
	res.Duration = time.Since(start)

	p.Meta = pipeline.Metadata{
		RunID:         uuid.NewString(),
		TrainedAt:     time.Now().UTC(),
		Seed:          cfg.Seed,
		TrainRows:     res.TrainRows,
		TestRows:      res.TestRows,
		TrainAccuracy: res.TrainAccuracy,
		TestAccuracy:  res.TestAccuracy,
	}
	level.Info(logger).Log(
		"msg", "model trained",
		"run_id", p.Meta.RunID,
		"features", p.Width(),
		"trees", len(clf.Trees),
		"train_acc", res.TrainAccuracy,
		"test_acc", res.TestAccuracy,
		"logloss", res.TrainLogLoss,
		"took", res.Duration,
	)
	return res, nil
}

func pick(examples []features.Example, idx []int) ([]features.Shipment, []int) {
	xs := make([]features.Shipment, len(idx))
	ys := make([]int, len(idx))
	for k, i := range idx {
		xs[k] = examples[i].Shipment
		ys[k] = examples[i].DelayFlag
	}
	return xs, ys
}
