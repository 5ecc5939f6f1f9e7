package db

import (
	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table owned or read by the catalog, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.AttributeDefinition{},
		&model.Category{},
		&model.CategoryAttribute{},
		&model.Product{},
		&model.ProductDetail{},
		&model.VariantAttributeValue{},
		&model.CartItem{},
		&model.OrderItem{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	return MigrateWith(DB)
}

func MigrateWith(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
