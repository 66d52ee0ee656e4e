package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/grocery-store/internal/auth"
	"github.com/Dan9191/grocery-store/internal/config"
	"github.com/Dan9191/grocery-store/internal/handler"
	"github.com/Dan9191/grocery-store/internal/jobs"
	"github.com/Dan9191/grocery-store/internal/metrics"
	"github.com/Dan9191/grocery-store/internal/notify"
	"github.com/Dan9191/grocery-store/internal/repository"
	"github.com/Dan9191/grocery-store/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize store
	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to open store: %v", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Warnf("Failed to close store: %v", err)
		}
	}()
	logger.Infof("Connected to %s store", cfg.StoreDriver)

	monitor, err := jobs.NewHealthMonitor(store, cfg.HealthCheckSchedule, cfg.StoreTimeout, logger)
	if err != nil {
		logger.Fatalf("Failed to schedule health checks: %v", err)
	}
	monitor.Start()
	defer monitor.Stop()

	var mailer notify.Mailer
	if cfg.MailEnabled() {
		mailer = notify.NewSender(cfg, logger)
	}

	// Initialize layers
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := service.NewAuthService(store, tokens, mailer, logger)
	catalogSvc := service.NewCatalogService(store, logger)
	h := handler.NewHandler(authSvc, catalogSvc, monitor, logger, cfg.StoreTimeout)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.NewRouter(h, metrics.New(), cfg.AllowedOrigins),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Infof("Server is running on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
		os.Exit(1)
	}
	authSvc.Wait()
	logger.Info("Server stopped")
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	if cfg.StoreDriver == config.StoreMemory {
		return repository.NewMemory(), nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()

	store, err := repository.NewMongo(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureIndexes(connectCtx); err != nil {
		_ = store.Close(context.Background())
		return nil, err
	}
	return store, nil
}
