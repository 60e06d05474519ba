package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"

	"finguard/pkg/config"
	"finguard/pkg/logger"
	"finguard/pkg/postgres"

	"go.uber.org/zap"
)

// Applies every migrations/*.sql file in lexicographic order. Statements are
// written to be re-runnable (IF NOT EXISTS / OR REPLACE), so the command is
// safe to invoke on every deploy.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	dir := migrationsDir()
	entries, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		appLogger.Fatal("Failed to list migrations", zap.Error(err))
	}
	if len(entries) == 0 {
		appLogger.Fatal("No migrations found", zap.String("dir", dir))
	}
	sort.Strings(entries)

	for _, path := range entries {
		sqlBytes, err := os.ReadFile(path)
		if err != nil {
			appLogger.Fatal("Failed to read migration", zap.String("file", path), zap.Error(err))
		}

		if _, err := db.Exec(ctx, string(sqlBytes)); err != nil {
			appLogger.Fatal("Migration failed", zap.String("file", path), zap.Error(err))
		}

		appLogger.Info("Applied migration", zap.String("file", filepath.Base(path)))
	}

	appLogger.Info("Migrations complete", zap.Int("count", len(entries)))
}

func migrationsDir() string {
	paths := []string{"migrations", "../migrations", "../../migrations"}
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			return p
		}
	}
	return "migrations"
}
