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
	httpserver "cryptorates-service/internal/infrastructure/http"
	"cryptorates-service/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	cfg := config.Load()
	logx.SetLevel(cfg.LogLevel)
	logger := logx.L()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := bootstrap.InitAPI(ctx)
	if err != nil {
		logger.Fatal("bootstrap api", zap.Error(err))
	}
	defer cleanup()

	addr := ":" + cfg.Port
	server := &http.Server{
		Addr:         addr,
		Handler:      httpserver.NewRouter(srv),
		ReadTimeout:  infraconfig.DefaultReadTimeout,
		WriteTimeout: infraconfig.DefaultWriteTimeout,
	}

	go func() {
		logger.Info("server started", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), infraconfig.DefaultShutdownTimeout)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}
