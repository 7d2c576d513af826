package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"droplink/internal/server/api"
	"droplink/internal/server/config"
	"droplink/internal/server/database"
	"droplink/internal/server/service"
	"droplink/internal/server/storage"
)

func main() {
	// Structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load config
	cfg := config.Load()
	slog.Info("configuration loaded",
		"port", cfg.Port,
		"upload_path", cfg.UploadPath,
		"max_file_size", cfg.MaxFileSize,
		"session_ttl", cfg.SessionTTL,
	)

	// Connect to database
	ctx := context.Background()
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run migrations
	if err := db.RunMigrations(ctx); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations complete")

	// Initialize storage
	store := storage.NewFileSystemStore(cfg.UploadPath)
	if err := store.EnsureDir(); err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	slog.Info("file storage initialized", "path", cfg.UploadPath)

	// Initialize repository, share service and session store
	repo := database.NewRepository(db)
	svc := service.NewShareService(repo, store, cfg)
	sessions := service.NewMemorySessionStore(cfg.SessionTTL)

	// Start session janitor
	janitorCtx, janitorCancel := context.WithCancel(context.Background())
	janitor := service.NewSessionJanitor(sessions, cfg.SweepInterval)
	janitor.Start(janitorCtx)

	// Setup HTTP router
	handler := api.NewHandler(svc, sessions, db, cfg)
	e := api.SetupRouter(handler, sessions, cfg)

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		slog.Info("starting server", "addr", addr)
		if err := e.Start(addr); err != nil {
			slog.Info("server stopped", "reason", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutting down", "signal", sig)

	// Stop accepting new requests, finish in-flight with 30s timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	// Stop session janitor
	janitorCancel()
	janitor.Wait()

	slog.Info("server exited cleanly")
}
