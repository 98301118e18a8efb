package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wealth_aggregator/internal/adapter"
	"wealth_aggregator/internal/config"
	"wealth_aggregator/internal/infrastructure/restapi"
	"wealth_aggregator/internal/pkg/logger"
	"wealth_aggregator/internal/registry"
	"wealth_aggregator/internal/repository"
	"wealth_aggregator/internal/service"
	"wealth_aggregator/pkg/metrics"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("No .env file loaded: %v", err)
	}

	cfgPath := getEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging.Level)
	if err != nil {
		logrus.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()
	logger.SetSlogDefault(zapLogger)

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	metrics.MustRegisterMetrics()

	makerRegistry := registry.NewFileRegistry(cfg.Registry.File, zapLogger)

	adapterProvider, err := adapter.NewAdapterProvider(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to build adapter provider", zap.Error(err))
	}

	wealthRepo, err := repository.NewSQLiteWealthRepository(cfg.Storage.Path, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to open wealth repository", zap.Error(err))
	}
	defer wealthRepo.Close()

	wealthService := service.NewWealthService(makerRegistry, adapterProvider, wealthRepo, cfg, zapLogger)
	zapLogger.Info("WealthService initialized")

	wealthHandler := restapi.NewWealthHandler(wealthService, zapLogger)
	router := restapi.SetupRouter(wealthHandler, zapLogger)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info("Server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
