package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"cryptorates-service/internal/bootstrap"
	"cryptorates-service/internal/config"
	infraconfig "cryptorates-service/internal/infrastructure/config"
	"cryptorates-service/internal/infrastructure/logx"
	"cryptorates-service/internal/infrastructure/worker"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func init() { _ = godotenv.Load() }

func main() {
	cfg := config.Load()
	logx.SetLevel(cfg.LogLevel)
	log := logx.L()
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, cleanup, err := bootstrap.InitWorker(ctx)
	if err != nil {
		log.Fatal("init worker", zap.Error(err))
	}
	defer cleanup()

	ops := &http.Server{Addr: cfg.MetricsAddr, Handler: worker.NewOpsRouter(w)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w.Start(gctx)
		return nil
	})
	g.Go(func() error {
		log.Info("ops server started", zap.String("addr", cfg.MetricsAddr))
		if err := ops.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), infraconfig.DefaultShutdownTimeout)
		defer cancel()
		return ops.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("worker exited", zap.Error(err))
		return
	}
	log.Info("worker stopped")
}
