package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobflow/config"
	"jobflow/internal/catalog"
	"jobflow/internal/database"
	"jobflow/internal/scheduler"
	"jobflow/internal/server"
	"jobflow/internal/storage"
	"jobflow/internal/ui"
	"jobflow/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// @title JobFlow API
// @version 1.0
// @description Job board API: filtered listings, per-session saved jobs and searches, application and posting forms, and the page chrome state behind them.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Operator key for the admin routes.

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Cfg

	// Initialize logger
	if err := logger.Init(cfg); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Info("Starting JobFlow API",
		zap.String("version", "1.0.0"),
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The database only backs session storage
	var db *gorm.DB
	if cfg.Storage.Driver == "database" {
		if err := database.Connect(cfg, logger.Component("database")); err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		db = database.DB
	}

	store, err := storage.Open(ctx, cfg, db, logger.Component("storage"))
	if err != nil {
		logger.Fatal("Failed to open session storage", zap.Error(err))
	}
	sessions := storage.NewManager(store, logger.Component("storage"),
		storage.WithRecentSearchCap(cfg.Listing.RecentSearchCap),
	)

	// Load the catalog before serving; a failure leaves it empty and the
	// listing reports it per request
	httpClient := &http.Client{Timeout: cfg.Catalog.FetchTimeout}
	cat := catalog.New(
		catalog.NewSource(cfg.Catalog.JobsSource, httpClient),
		catalog.NewSource(cfg.Catalog.CompaniesSource, httpClient),
		logger.Component("catalog"),
	)
	loadCtx, cancel := context.WithTimeout(ctx, cfg.Catalog.FetchTimeout)
	if err := cat.Reload(loadCtx); err != nil {
		logger.Error("Initial catalog load failed", zap.Error(err))
	}
	cancel()

	registry := ui.NewRegistry(ui.Options{
		ToastDuration: cfg.UI.ToastDuration,
		Debounce:      cfg.UI.SearchDebounce,
	})
	defer registry.Close()

	srv, err := server.New(cfg, logger.Logger, server.Deps{
		Catalog:  cat,
		Sessions: sessions,
		Chrome:   registry,
		DB:       db,
	})
	if err != nil {
		logger.Fatal("Failed to build server", zap.Error(err))
	}

	sched := scheduler.New(scheduler.Options{
		Catalog:      cat,
		RefreshSpec:  cfg.Catalog.RefreshSpec,
		FetchTimeout: cfg.Catalog.FetchTimeout,
		Chrome:       registry,
		IdleTimeout:  cfg.UI.IdleTimeout,
		RateLimiter:  srv.RateLimiter,
	}, logger.Component("scheduler"))
	if err := sched.Start(ctx); err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}

	// Create HTTP server
	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: srv.Router,

		// Timeouts
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,

		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting HTTP server",
			zap.String("address", httpServer.Addr),
		)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()

	logger.Info("Shutting down server...")

	// Create a deadline for shutdown
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	sched.Stop()

	if err := database.Close(); err != nil {
		logger.Error("Failed to close database connection", zap.Error(err))
	}

	logger.Info("Server shutdown complete")
}
