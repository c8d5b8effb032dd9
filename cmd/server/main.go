package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/rmartinelli/ytgrab/internal/config"
	"github.com/rmartinelli/ytgrab/internal/extractor"
	"github.com/rmartinelli/ytgrab/internal/history"
	"github.com/rmartinelli/ytgrab/internal/httpapp"
	"github.com/rmartinelli/ytgrab/internal/library"
	"github.com/rmartinelli/ytgrab/internal/logger"
	"github.com/rmartinelli/ytgrab/internal/registry"
	"github.com/rmartinelli/ytgrab/internal/runner"
	"github.com/rmartinelli/ytgrab/internal/storage"
)

func main() {
	// Optional .env for local development; a missing file is fine.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	if err := storage.EnsureDir(cfg.DownloadsDir); err != nil {
		appLogger.Error("Failed to create downloads directory", "dir", cfg.DownloadsDir, "error", err)
		os.Exit(1)
	}

	hist := history.NewStore(cfg.HistoryPath, appLogger)
	hist.Load()

	lib := library.New(cfg.DownloadsDir, hist, appLogger)
	reg := registry.New()
	ext := extractor.New(cfg, appLogger)

	run := runner.New(reg, hist, lib, ext, cfg, appLogger)
	defer run.Stop()

	appLogger.Info("Service starting",
		"history_entries", hist.Len(),
		"existing_downloads", len(lib.List()),
		"downloads_dir", cfg.DownloadsDir,
		"max_concurrent", cfg.MaxConcurrent,
	)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := httpapp.NewHandler(run, ext, reg, lib, appLogger)
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		appLogger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	appLogger.Info("Server exiting")
}
