package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"wealth_aggregator/internal/adapter"
	"wealth_aggregator/internal/config"
	"wealth_aggregator/internal/domain/entity"
	"wealth_aggregator/internal/pkg/logger"
	"wealth_aggregator/internal/registry"
	"wealth_aggregator/internal/repository"
	"wealth_aggregator/internal/service"
	"wealth_aggregator/pkg/metrics"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// collector is the one-shot variant of the aggregator: it fetches and
// persists the wealth of one maker (-maker) or of every maker found in the
// registry, then exits.
func main() {
	var (
		cfgPath   = flag.String("config", "config/config.yaml", "path to the configuration file")
		makerFlag = flag.String("maker", "", "collect only this maker address (default: all registry makers)")
		timeout   = flag.Duration("timeout", 5*time.Minute, "overall timeout for one collection run")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.Debugf("No .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging.Level)
	if err != nil {
		logrus.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()
	logger.SetSlogDefault(zapLogger)

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

	makers, err := resolveMakers(makerRegistry.Entries, *makerFlag)
	if err != nil {
		zapLogger.Fatal("Failed to resolve maker list", zap.Error(err))
	}
	if len(makers) == 0 {
		zapLogger.Warn("No makers to collect")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	failed := 0
	for _, maker := range makers {
		wealths, err := wealthService.FetchWealth(ctx, maker)
		if err != nil {
			zapLogger.Error("Failed to fetch wealth", zap.String("makerAddress", maker), zap.Error(err))
			failed++
			continue
		}
		if err := wealthService.PersistWealth(ctx, wealths); err != nil {
			zapLogger.Error("Failed to persist wealth", zap.String("makerAddress", maker), zap.Error(err))
			failed++
			continue
		}
		zapLogger.Info("Collected wealth", zap.String("makerAddress", maker), zap.Int("chainCount", len(wealths)))
	}

	if failed > 0 {
		zapLogger.Error("Collection finished with failures", zap.Int("failed", failed), zap.Int("total", len(makers)))
		os.Exit(1)
	}
	zapLogger.Info("Collection finished", zap.Int("makers", len(makers)))
}

// resolveMakers returns either the single requested maker or every distinct
// maker address in the registry, in first-seen order.
func resolveMakers(entries func() ([]entity.MakerPairEntry, error), maker string) ([]string, error) {
	if maker != "" {
		return []string{maker}, nil
	}
	rows, err := entries()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	makers := make([]string, 0)
	for _, row := range rows {
		key := strings.ToLower(row.MakerAddress)
		if seen[key] {
			continue
		}
		seen[key] = true
		makers = append(makers, row.MakerAddress)
	}
	return makers, nil
}
