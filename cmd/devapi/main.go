// Command devapi runs the in-memory development API that the time4kids
// CLI talks to when no real platform backend is available.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/DMX-Projects/time4kids-sub001/internal/devstub"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	addr := os.Getenv("TIME4KIDS_DEV_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	stub, err := devstub.New(devstub.Options{
		JWTSecret: os.Getenv("TIME4KIDS_DEV_JWT_SECRET"),
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("failed to init dev API", zap.Error(err))
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           stub.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", zap.Error(err))
		}
	}()

	logger.Info("dev API listening",
		zap.String("addr", addr),
		zap.String("version", version),
		zap.String("build_date", buildDate))

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
