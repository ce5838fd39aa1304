// Command train fits the delivery-delay classifier on the CSV tables and
// writes the model artifact the dashboard loads.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/SomethingReallCool234/NexGen/pkg/config"
	"github.com/SomethingReallCool234/NexGen/pkg/data"
	"github.com/SomethingReallCool234/NexGen/pkg/features"
	"github.com/SomethingReallCool234/NexGen/pkg/logging"
	"github.com/SomethingReallCool234/NexGen/pkg/store"
	"github.com/SomethingReallCool234/NexGen/pkg/train"
)

func main() {
	fs := pflag.NewFlagSet("train", pflag.ExitOnError)
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel)

	if err := run(context.Background(), cfg, logger); err != nil {
		level.Error(logger).Log("msg", "training failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger log.Logger) error {
	if cfg.TrainTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.TrainTimeout)
		defer cancel()
	}
	out := message.NewPrinter(language.English)

	out.Println("Loading datasets...")
	tables, err := data.LoadTables(cfg.DataDir)
	if err != nil {
		return err
	}
	level.Info(logger).Log("msg", "tables loaded", "dir", cfg.DataDir,
		"delivery", tables.Delivery.Nrow(), "orders", tables.Orders.Nrow(), "routes", tables.Routes.Nrow())

	examples, rep, err := features.Build(tables)
	if err != nil {
		return err
	}
	out.Printf("Merged rows: %d, usable rows: %d (%d dropped), delayed: %d\n",
		rep.Joined, rep.Kept, rep.Dropped, rep.Positives)

	out.Println("Training model...")
	res, err := train.Run(ctx, examples, train.Config{TestRatio: cfg.TestRatio, Seed: cfg.Seed}, logger)
	if err != nil {
		return err
	}
	out.Printf("Training Accuracy: %.2f%%\n", res.TrainAccuracy*100)
	out.Printf("Test Accuracy: %.2f%%\n", res.TestAccuracy*100)
	cm := res.Confusion
	out.Printf("Test confusion: TP=%d FP=%d TN=%d FN=%d, precision %.3f, recall %.3f, F1 %.3f\n",
		cm.TP, cm.FP, cm.TN, cm.FN, res.Precision, res.Recall, res.F1)

	if err := store.Save(res.Pipeline, cfg.ModelPath); err != nil {
		return err
	}
	size := "unknown"
	if fi, err := os.Stat(cfg.ModelPath); err == nil {
		size = humanize.Bytes(uint64(fi.Size()))
	}
	level.Info(logger).Log("msg", "model saved", "path", cfg.ModelPath, "size", size, "run_id", res.Pipeline.Meta.RunID)
	out.Printf("Model saved to %s\n", cfg.ModelPath)
	return nil
}
