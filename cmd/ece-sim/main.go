// Package main is the entry point for the ece-sim binary, an in-memory
// stand-in for the ECE user admin API used for development and end-to-end
// testing of userctl.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"userctl/internal/ecesim"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := loadSimConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	seed := ecesim.DemoSeed()
	if cfg.SeedFile != "" {
		seed, err = ecesim.LoadSeed(cfg.SeedFile)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		logger.Info("seed loaded", "path", cfg.SeedFile)
	}

	store := ecesim.NewStore(seed)
	handler := ecesim.NewHandler(store, ecesim.Config{
		Username: cfg.Username,
		Password: cfg.Password,
		APIKey:   cfg.APIKey,
	}, logger)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		logger.Info("shutting down simulator")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("ece-sim listening", "addr", cfg.ListenAddr, "users", store.Len())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
