package database

import (
	"backend/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.Store{},
		&model.User{},
		&model.RefreshToken{},
		&model.Category{},
		&model.Unit{},
		&model.Inventory{},
		&model.StoreInventory{},
		&model.Requisition{},
		&model.AuditLog{},
	)
	if err != nil {
		logger.Warn("failed to auto-migrate models", zap.Error(err))
	}

	return db, nil
}
