package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/solrdex/internal/app"
	"github.com/kailas-cloud/solrdex/internal/config"
	"github.com/kailas-cloud/solrdex/internal/db/solr"
	logpkg "github.com/kailas-cloud/solrdex/internal/logger"
	"github.com/kailas-cloud/solrdex/internal/metrics"
	chiTransport "github.com/kailas-cloud/solrdex/internal/transport/chi"
	"github.com/kailas-cloud/solrdex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting solrdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("solr_url", cfg.Solr.BaseURL),
		zap.String("solr_core", cfg.Solr.Core),
		zap.String("visibility_driver", cfg.Visibility.Driver),
	)

	store, err := solr.NewStore(solr.Config{
		BaseURL:  cfg.Solr.BaseURL,
		Core:     cfg.Solr.Core,
		Username: cfg.Solr.Username,
		Password: cfg.Solr.Password,
		Timeout:  time.Duration(cfg.Solr.TimeoutSec) * time.Second,
	})
	if err != nil {
		logger.Fatal("Failed to create solr store", zap.Error(err))
	}

	// Wait for the engine to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Solr.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Solr not ready", zap.Error(err))
	}
	logger.Info("Connected to solr")

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterEngineMetrics()

	vis, err := app.OpenVisibility(ctx, cfg.Visibility)
	if err != nil {
		logger.Fatal("Visibility store unavailable", zap.Error(err))
	}
	defer vis.Close()
	if vis.Hider != nil {
		logger.Info("Connected to visibility store", zap.Strings("addrs", cfg.Visibility.Addrs))
	}

	// Composition root
	searchSvc, healthSvc := app.Build(cfg, store, vis, logger)

	// Create chi server
	server := chiTransport.NewServer(searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(chiTransport.Recoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.RequestLog(logger, cfg.Search.IndexName))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys, cfg.Auth.AdminKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
