// Command dashboard serves the delivery analytics API and delay predictions.
// Tables and model are loaded once at startup.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/pflag"

	"github.com/SomethingReallCool234/NexGen/pkg/config"
	"github.com/SomethingReallCool234/NexGen/pkg/dashboard"
	"github.com/SomethingReallCool234/NexGen/pkg/data"
	"github.com/SomethingReallCool234/NexGen/pkg/logging"
	"github.com/SomethingReallCool234/NexGen/pkg/store"
)

func main() {
	fs := pflag.NewFlagSet("dashboard", pflag.ExitOnError)
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		level.Error(logger).Log("msg", "dashboard stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger log.Logger) error {
	tables, err := data.LoadTables(cfg.DataDir)
	if err != nil {
		return err
	}
	model, err := store.Load(cfg.ModelPath)
	if err != nil {
		return err
	}
	state, err := dashboard.NewState(tables, model)
	if err != nil {
		return err
	}
	level.Info(logger).Log("msg", "state loaded", "deliveries", tables.Delivery.Nrow(), "model_run_id", model.Meta.RunID)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           dashboard.NewServer(state, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		level.Info(logger).Log("msg", "listening", "addr", cfg.ListenAddr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	level.Info(logger).Log("msg", "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
