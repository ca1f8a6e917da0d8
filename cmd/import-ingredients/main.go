package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	catalogapp "github.com/foodgram/backend/internal/application/catalog"
	"github.com/foodgram/backend/internal/infrastructure/config"
	"github.com/foodgram/backend/internal/infrastructure/logger"
	"github.com/foodgram/backend/internal/infrastructure/migration"
	"github.com/foodgram/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var (
		file      string
		batchSize int
		migrate   bool
		logLevel  string
	)

	flag.StringVar(&file, "file", "data/ingredients.csv", "CSV file with name,measurement_unit rows")
	flag.IntVar(&batchSize, "batch-size", catalogapp.DefaultImportBatchSize, "Rows inserted per statement")
	flag.BoolVar(&migrate, "migrate", false, "Apply pending migrations before importing")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	if migrate || cfg.Database.AutoMigrate {
		m, err := migration.Open(&cfg.Database, "", log)
		if err != nil {
			log.Fatal("Failed to open migrator", zap.Error(err))
		}
		if err := m.Up(); err != nil {
			_ = m.Close()
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
		_ = m.Close()
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	f, err := os.Open(file)
	if err != nil {
		log.Fatal("Failed to open import file", zap.String("file", file), zap.Error(err))
	}
	defer f.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service := catalogapp.NewIngredientImportService(persistence.NewGormIngredientRepository(db.DB), batchSize, log)
	result, err := service.Import(ctx, f)
	if err != nil {
		log.Fatal("Ingredient import failed", zap.String("file", file), zap.Error(err))
	}

	for _, rowErr := range result.Errors {
		log.Warn("Row rejected",
			zap.Int("row", rowErr.Row),
			zap.String("column", rowErr.Column),
			zap.String("code", rowErr.Code),
			zap.String("message", rowErr.Message),
		)
	}
	log.Info("Ingredient import finished",
		zap.String("file", file),
		zap.Int("total", result.TotalRows),
		zap.Int("imported", result.ImportedRows),
		zap.Int("skipped", result.SkippedRows),
		zap.Int("errors", result.ErrorRows),
		zap.Bool("errors_truncated", result.IsTruncated),
	)
}
