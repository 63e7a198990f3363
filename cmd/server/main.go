package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cor0nius/saltyocean/internal/config"
	"github.com/cor0nius/saltyocean/internal/core"
	"github.com/cor0nius/saltyocean/internal/httpapi"
)

func main() {
	cfg := config.Load()

	services, err := core.New(cfg)
	if err != nil {
		cfg.Logger.Error("could not build services", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	services.Scheduler.Start(ctx)
	defer services.Scheduler.Stop()

	api := &httpapi.API{Services: services, Logger: cfg.Logger}
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httpapi.NewRouter(api),
	}

	go func() {
		cfg.Logger.Info("serving", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			cfg.Logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	cfg.Logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		cfg.Logger.Error("graceful shutdown failed", "error", err)
	}
}
