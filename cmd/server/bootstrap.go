package main

import (
	"fmt"

	"volunteer-connect/internal/adapters/persistence/models"
	"volunteer-connect/internal/config"
	"volunteer-connect/internal/pkg/logger"

	"gorm.io/gorm"
)

// bootstrap loads configuration, configures logging and opens a migrated
// database. Callers own closing it through config.CloseDatabase.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.AppMode, cfg.LogLevel)

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}

	if err := models.AutoMigrate(db); err != nil {
		_ = config.CloseDatabase()
		return nil, nil, fmt.Errorf("failed to auto migrate: %w", err)
	}
	logger.Log.Info("database migration completed")

	return cfg, db, nil
}
