package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bloodlink-dev/bloodlink/backend/internal/router"
	"github.com/bloodlink-dev/bloodlink/backend/internal/setup"
	"github.com/bloodlink-dev/bloodlink/shared/config"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "backend/config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setup.SetupDependencies(ctx, cfg)
	if err != nil {
		logger.Log.Error("failed to setup dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.Close(context.Background())

	deps.Accounts.StartBackgroundUpdate(ctx, cfg.Public.AccountCacheInterval)

	if err := deps.InventoryExpiry.RunSweep(); err != nil {
		logger.Log.Error("initial inventory expiry sweep failed", "error", err)
	}
	deps.InventoryExpiry.StartBackgroundSweep(ctx, cfg.Public.InventoryExpiryInterval)

	srv := &http.Server{
		Addr:              cfg.Public.HttpAddr,
		Handler:           router.New(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Log.Info("server started", "addr", cfg.Public.HttpAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Log.Info("shutdown signal received")
	case err := <-serverErr:
		logger.Log.Error("server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("graceful shutdown failed", "error", err)
	}
	logger.Log.Info("server stopped")
}
